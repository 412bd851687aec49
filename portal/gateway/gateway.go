package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/client"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/i18n"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/idempotency"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry/metrics"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/wizard"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

var (
	// ErrNilReader is returned by New without an account reader.
	ErrNilReader = errors.New("gateway: reader is nil")
	// ErrNoBackends is returned by New without any wizard backend.
	ErrNoBackends = errors.New("gateway: no wizard backend configured")
	// ErrUnknownFlow is returned for a flow without a backend.
	ErrUnknownFlow = errors.New("gateway: unknown flow")
)

// Reader is the read-only part of the portal backend.
type Reader interface {
	Account(ctx context.Context) (client.AccountSummary, error)
	Contracts(ctx context.Context) ([]client.Contract, error)
	Payments(ctx context.Context) ([]client.Payment, error)
	Transactions(ctx context.Context) ([]client.Transaction, error)
}

// Backends returns the draw and prepayment backends of c, keyed by flow.
func Backends(c *client.Client) map[wizard.Flow]wizard.Backend {
	return map[wizard.Flow]wizard.Backend{
		constant.FlowDraw:       c.DrawBackend(),
		constant.FlowPrepayment: c.PrepaymentBackend(),
	}
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(l log.Logger) Option {
	return func(g *Gateway) {
		g.logger = log.OrNop(l)
	}
}

// WithCatalog sets the translations used for notifications.
func WithCatalog(c *i18n.Catalog) Option {
	return func(g *Gateway) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithMetrics records wizard outcomes on f.
func WithMetrics(f *metrics.Factory) Option {
	return func(g *Gateway) {
		if f != nil {
			g.metrics = f
		}
	}
}

// WithClassifier replaces the duplicate classifier handed to every session.
func WithClassifier(c wizard.Classifier) Option {
	return func(g *Gateway) {
		if c != nil {
			g.classifier = c
		}
	}
}

// WithKeyOptions configures the idempotency manager of every new session.
func WithKeyOptions(opts ...idempotency.ManagerOption) Option {
	return func(g *Gateway) {
		g.keyOptions = append(g.keyOptions, opts...)
	}
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(g *Gateway) {
		g.sessionTTL = ttl
	}
}

// WithCurrency sets the currency used for display amounts. Defaults to USD.
func WithCurrency(unit currency.Unit) Option {
	return func(g *Gateway) {
		g.currency = unit
	}
}

// WithDefaultLocale is used when a request carries no Accept-Language.
func WithDefaultLocale(tag language.Tag) Option {
	return func(g *Gateway) {
		g.defaultLocale = tag
	}
}

// WithPrometheus serves reg on /metrics and registers an open sessions gauge
// on it.
func WithPrometheus(reg *prometheus.Registry) Option {
	return func(g *Gateway) {
		g.prometheus = reg
	}
}

// WithHealth reports dependency states on /health.
func WithHealth(status func() map[string]string) Option {
	return func(g *Gateway) {
		g.health = status
	}
}

// WithVersion sets the value served by /version.
func WithVersion(version string) Option {
	return func(g *Gateway) {
		g.version = version
	}
}

// Gateway serves the portal SPA.
type Gateway struct {
	reader     Reader
	backends   map[wizard.Flow]wizard.Backend
	sessions   *registry
	catalog    *i18n.Catalog
	classifier wizard.Classifier
	keyOptions []idempotency.ManagerOption
	metrics    *metrics.Factory
	logger     log.Logger
	health     func() map[string]string
	version    string
	sessionTTL time.Duration

	currency      currency.Unit
	defaultLocale language.Tag
	prometheus    *prometheus.Registry
}

// New builds a Gateway over reader and one backend per wizard flow.
func New(reader Reader, backends map[wizard.Flow]wizard.Backend, opts ...Option) (*Gateway, error) {
	if reader == nil {
		return nil, ErrNilReader
	}

	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	g := &Gateway{
		reader:     reader,
		backends:   backends,
		catalog:    i18n.DefaultCatalog(),
		classifier: idempotency.NewClassifier(),
		metrics:    metrics.NewNopFactory(),
		logger:     log.NewNop(),
		version:    "0.0.0",

		currency:      currency.USD,
		defaultLocale: language.English,
	}

	for _, opt := range opts {
		opt(g)
	}

	for flow := range backends {
		if _, err := actionType(flow); err != nil {
			return nil, err
		}
	}

	g.sessions = newRegistry(g.sessionTTL)

	if g.prometheus != nil {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "portal_gateway_open_sessions",
			Help: "Wizard sessions currently held by the gateway.",
		}, func() float64 { return float64(g.sessions.len()) })

		if err := g.prometheus.Register(gauge); err != nil {
			return nil, fmt.Errorf("gateway: register sessions gauge: %w", err)
		}
	}

	return g, nil
}

// RegisterRoutes mounts the gateway routes on router.
func (g *Gateway) RegisterRoutes(router fiber.Router) {
	router.Get("/health", libHTTP.Health(g.health))
	router.Get("/version", libHTTP.Version(g.version))

	if g.prometheus != nil {
		router.Get("/metrics", libHTTP.Prometheus(g.prometheus))
	}

	v1 := router.Group("/v1", withBearerToken)

	v1.Get("/account", g.getAccount)
	v1.Get("/contracts", g.listContracts)
	v1.Get("/payments", g.listPayments)
	v1.Get("/transactions", g.listTransactions)

	wizards := v1.Group("/wizards/:flow")
	wizards.Post("/", g.openWizard)
	wizards.Get("/:id", g.getWizard)
	wizards.Delete("/:id", g.closeWizard)
	wizards.Put("/:id/amount", g.setAmount)
	wizards.Post("/:id/continue", g.continueWizard)
	wizards.Post("/:id/confirmation", g.openConfirmation)
	wizards.Delete("/:id/confirmation", g.cancelConfirmation)
	wizards.Post("/:id/confirm", g.confirm)
}

// Shutdown closes every open session.
func (g *Gateway) Shutdown(ctx context.Context) {
	g.sessions.closeAll(ctx)
}

// SessionCount returns the number of open sessions.
func (g *Gateway) SessionCount() int {
	return g.sessions.len()
}

func actionType(flow wizard.Flow) (string, error) {
	switch flow {
	case constant.FlowDraw:
		return constant.ActionDrawCreate, nil
	case constant.FlowPrepayment:
		return constant.ActionPrepaymentCreate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}
}

// withBearerToken forwards the caller's bearer token to the backend client.
func withBearerToken(c *fiber.Ctx) error {
	if token := libHTTP.ExtractTokenFromHeader(c); token != "" {
		c.SetUserContext(client.ContextWithToken(c.UserContext(), token))
	}

	return c.Next()
}
