package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/backoff"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/circuitbreaker"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName is the circuit breaker name of the portal backend.
const ServiceName = "portal-api"

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
	tracerName     = "portal/client"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL string
	// Token is the static bearer token. A token carried by the request
	// context (ContextWithToken) takes precedence.
	Token string
	// Timeout bounds a single HTTP attempt. Zero means 30s.
	Timeout time.Duration
	// ReadRetries is the number of extra attempts for reads.
	ReadRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = log.OrNop(l)
	}
}

// WithBreakers sets the circuit breaker manager shared with other components.
func WithBreakers(m circuitbreaker.Manager) Option {
	return func(c *Client) {
		if m != nil {
			c.breakers = m
		}
	}
}

// WithTracerProvider sets the provider for client spans. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMetrics records backend latency on f.
func WithMetrics(f *metrics.Factory) Option {
	return func(c *Client) {
		if f != nil {
			c.metrics = f
		}
	}
}

// WithRetryPolicy overrides the read retry policy. Attempts is always
// derived from Config.ReadRetries.
func WithRetryPolicy(p backoff.Policy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// Client is a portal backend client. It is safe for concurrent use.
type Client struct {
	cfg      Config
	http     *http.Client
	logger   log.Logger
	breakers circuitbreaker.Manager
	tracer   trace.Tracer
	metrics  *metrics.Factory
	retry    backoff.Policy
}

// New builds a Client and registers its circuit breaker.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cfg.ReadRetries = max(cfg.ReadRetries, 0)

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		logger:  log.NewNop(),
		tracer:  otel.Tracer(tracerName),
		metrics: metrics.NewNopFactory(),
		retry:   backoff.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.breakers == nil {
		c.breakers = circuitbreaker.NewManager(c.logger)
	}

	c.retry.Attempts = cfg.ReadRetries + 1
	c.retry.Retryable = retryableRead

	breakerCfg := circuitbreaker.HTTPServiceConfig()
	breakerCfg.IsSuccessful = func(err error) bool { return err == nil || IsClientError(err) }

	if _, err := c.breakers.GetOrCreate(ServiceName, breakerCfg); err != nil {
		return nil, err
	}

	return c, nil
}

// Breakers returns the circuit breaker manager used by the client.
//
//nolint:ireturn
func (c *Client) Breakers() circuitbreaker.Manager {
	return c.breakers
}

// Ping checks that the backend answers. It bypasses the circuit breaker so it
// can serve as the breaker's health probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.roundTrip(ctx, request{operation: "health", method: http.MethodGet, path: "/health"})

	return err
}

type request struct {
	operation      string
	method         string
	path           string
	body           any
	idempotencyKey string
}

// read performs a GET with retries.
func (c *Client) read(ctx context.Context, operation, path string, out any) error {
	policy := c.retry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		c.logger.Log(ctx, log.LevelWarn, "retrying backend read",
			log.Operation(operation),
			log.Int("attempt", attempt),
			log.String("wait", wait.String()),
			log.Err(err),
		)
	}

	var body []byte

	err := backoff.Retry(ctx, policy, func(ctx context.Context) error {
		var err error

		body, err = c.call(ctx, request{operation: operation, method: http.MethodGet, path: path})

		return err
	})
	if err != nil {
		return err
	}

	return decode(body, out)
}

// call runs one request through the circuit breaker inside a client span.
func (c *Client) call(ctx context.Context, req request) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "portal.backend."+req.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		),
	)
	defer span.End()

	if req.idempotencyKey != "" {
		span.SetAttributes(attribute.String("portal.idempotency_key", req.idempotencyKey))
	}

	result, err := c.breakers.Execute(ctx, ServiceName, func() (any, error) {
		return c.roundTrip(ctx, req)
	})
	if err != nil {
		if IsClientError(err) {
			opentelemetry.HandleSpanBusinessErrorEvent(span, "backend_rejected", err)
		} else {
			opentelemetry.HandleSpanError(span, "backend call failed", err)
		}

		return nil, err
	}

	body, _ := result.([]byte)

	return body, nil
}

func (c *Client) roundTrip(ctx context.Context, req request) ([]byte, error) {
	ctx, cancel, err := portal.WithTimeoutSafe(ctx, c.cfg.Timeout)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var payload io.Reader

	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("client: encode %s request: %w", req.operation, err)
		}

		payload = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.cfg.BaseURL+req.path, payload)
	if err != nil {
		return nil, fmt.Errorf("client: build %s request: %w", req.operation, err)
	}

	httpReq.Header.Set("Accept", constant.ContentTypeJSON)
	httpReq.Header.Set(constant.HeaderID, portal.HeaderIDFromContext(ctx))

	if payload != nil {
		httpReq.Header.Set(constant.HeaderContentType, constant.ContentTypeJSON)
	}

	if token := c.token(ctx); token != "" {
		httpReq.Header.Set(constant.Authorization, constant.Bearer+" "+token)
	}

	if req.idempotencyKey != "" {
		httpReq.Header.Set(constant.IdempotenceKey, req.idempotencyKey)
	}

	opentelemetry.InjectHTTPContext(ctx, httpReq.Header)

	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		_ = c.metrics.RecordBackendRequest(ctx, req.operation, 0, time.Since(start))

		c.logger.Log(ctx, log.LevelWarn, "backend unreachable",
			log.Operation(req.operation),
			log.ErrorType(err),
		)

		return nil, fmt.Errorf("client: %s: %w", req.operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	_ = c.metrics.RecordBackendRequest(ctx, req.operation, resp.StatusCode, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("client: read %s response: %w", req.operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, body)

		c.logger.Log(ctx, log.LevelDebug, "backend rejected request",
			log.Operation(req.operation),
			log.Status(resp.StatusCode),
			log.BackendStatus(resp.StatusCode),
		)

		return nil, apiErr
	}

	return body, nil
}

func (c *Client) token(ctx context.Context) string {
	if token := TokenFromContext(ctx); token != "" {
		return token
	}

	return c.cfg.Token
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return nil
}

func retryableRead(err error) bool {
	switch {
	case IsClientError(err):
		return false
	case errors.Is(err, circuitbreaker.ErrServiceUnavailable):
		return false
	case errors.Is(err, ErrDecodeResponse):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

type tokenKey struct{}

// ContextWithToken returns a copy of ctx carrying the caller's bearer token.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token carried by ctx, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)

	return token
}
