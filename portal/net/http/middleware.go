package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type logMiddleware struct {
	logger    log.Logger
	skipPaths map[string]bool
}

// LogMiddlewareOption configures WithHTTPLogging.
type LogMiddlewareOption func(l *logMiddleware)

// WithCustomLogger sets the access logger.
func WithCustomLogger(logger log.Logger) LogMiddlewareOption {
	return func(l *logMiddleware) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSkipPaths disables access logging for exact paths.
func WithSkipPaths(paths ...string) LogMiddlewareOption {
	return func(l *logMiddleware) {
		for _, p := range paths {
			l.skipPaths[p] = true
		}
	}
}

// WithHTTPLogging assigns every request an X-Request-Id, stores a request
// logger in the user context and writes one access line per request in
// Common Log Format.
func WithHTTPLogging(opts ...LogMiddlewareOption) fiber.Handler {
	mid := &logMiddleware{
		logger:    log.NewNop(),
		skipPaths: map[string]bool{"/health": true},
	}

	for _, opt := range opts {
		opt(mid)
	}

	return func(c *fiber.Ctx) error {
		headerID := strings.TrimSpace(c.Get(constant.HeaderID))
		if headerID == "" {
			headerID = uuid.NewString()
			c.Request().Header.Set(constant.HeaderID, headerID)
		}

		c.Set(constant.HeaderID, headerID)

		logger := mid.logger.With(log.String("request_id", headerID))

		ctx := portal.ContextWithHeaderID(c.UserContext(), headerID)
		ctx = portal.ContextWithLogger(ctx, logger)
		c.SetUserContext(ctx)

		if mid.skipPaths[c.Path()] {
			return c.Next()
		}

		start := time.Now().UTC()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok { //nolint:errorlint
				status = fe.Code
			}
		}

		logger.Log(ctx, log.LevelInfo, clfLine(c, start, status),
			log.String("duration", time.Since(start).String()),
		)

		return err
	}
}

func clfLine(c *fiber.Ctx, start time.Time, status int) string {
	referer := c.Get(fiber.HeaderReferer)
	if referer == "" {
		referer = "-"
	}

	userAgent := c.Get(constant.HeaderUserAgent)
	if userAgent == "" {
		userAgent = "-"
	}

	return strings.Join([]string{
		c.IP(),
		"-",
		"-",
		c.Protocol(),
		start.Format("[02/Jan/2006:15:04:05 -0700]"),
		`"` + c.Method() + " " + c.OriginalURL() + `"`,
		strconv.Itoa(status),
		strconv.Itoa(len(c.Response().Body())),
		referer,
		userAgent,
	}, " ")
}

// WithTelemetry starts a server span per request, continuing the caller's
// trace when a traceparent header is present.
func WithTelemetry(tp trace.TracerProvider) fiber.Handler {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	tracer := tp.Tracer("portal/net/http")

	return func(c *fiber.Ctx) error {
		ctx := opentelemetry.ExtractHTTPContext(c)

		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Method()),
				attribute.String("url.path", c.Path()),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.response.status_code", status))

		if err != nil {
			opentelemetry.HandleSpanError(span, "handler error", err)
		} else if status >= fiber.StatusInternalServerError {
			opentelemetry.HandleSpanError(span, "server error", fiber.NewError(status))
		}

		return err
	}
}

// CORSConfig lists the SPA origins allowed to call the gateway.
type CORSConfig struct {
	AllowOrigins string
}

// WithCORS enables CORS for the portal SPA. The idempotency and request id
// headers are allowed and X-Request-Id is exposed.
func WithCORS(cfg CORSConfig) fiber.Handler {
	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: strings.Join([]string{
			fiber.HeaderAccept,
			fiber.HeaderContentType,
			fiber.HeaderAuthorization,
			constant.HeaderAcceptLanguage,
			constant.HeaderID,
			constant.HeaderTraceparent,
		}, ", "),
		ExposeHeaders:    constant.HeaderID,
		AllowCredentials: origins != "*",
	})
}
