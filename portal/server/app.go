package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
	"go.opentelemetry.io/otel/trace"
)

// AppConfig configures NewApp.
type AppConfig struct {
	AppName        string
	Logger         log.Logger
	TracerProvider trace.TracerProvider
	CORS           libHTTP.CORSConfig
}

// NewApp builds a fiber app with the portal middleware chain: panic
// recovery, CORS, a server span and the access log.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          libHTTP.FiberErrorHandler,
	})

	app.Use(recover.New())
	app.Use(libHTTP.WithCORS(cfg.CORS))
	app.Use(libHTTP.WithTelemetry(cfg.TracerProvider))
	app.Use(libHTTP.WithHTTPLogging(libHTTP.WithCustomLogger(cfg.Logger)))

	return app
}
