package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/circuitbreaker"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/client"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/gateway"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/i18n"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/server"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/zap"
	"github.com/spf13/cobra"
)

const healthCheckTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		Long: `Start the gateway HTTP server.

Configuration is read from the environment; --address overrides SERVER_ADDRESS.

Examples:
  PORTAL_API_BASE_URL=https://api.example.com portal-gateway serve
  portal-gateway serve --address :9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("address") {
				cfg.ServerAddress = address
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&address, "address", ":8080", "HTTP listen address")

	return cmd
}

func runServe(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := zap.New(zap.Config{
		Environment:     zap.Environment(cfg.EnvName),
		Level:           cfg.LogLevel,
		OTelLibraryName: cfg.OtelLibraryName,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	telemetry, err := opentelemetry.NewTelemetry(ctx, &opentelemetry.TelemetryConfig{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.Version,
		DeploymentEnv:             cfg.EnvName,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
		Logger:                    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	breakers := circuitbreaker.NewManager(logger)

	apiClient, err := client.New(client.Config{
		BaseURL:     cfg.PortalAPIBaseURL,
		Token:       cfg.PortalAPIToken,
		Timeout:     seconds(cfg.PortalAPITimeoutSeconds),
		ReadRetries: cfg.PortalAPIReadRetries,
	},
		client.WithLogger(logger),
		client.WithBreakers(breakers),
		client.WithTracerProvider(telemetry.TracerProvider),
		client.WithMetrics(telemetry.MetricsFactory),
	)
	if err != nil {
		return fmt.Errorf("failed to create portal API client: %w", err)
	}

	checker, err := circuitbreaker.NewHealthChecker(breakers, seconds(cfg.HealthCheckSeconds), healthCheckTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to create health checker: %w", err)
	}

	checker.Register(client.ServiceName, apiClient.Ping)
	breakers.RegisterStateChangeListener(checker)

	catalog, err := loadCatalog(cfg.MessagesFile)
	if err != nil {
		return err
	}

	locale, _ := cfg.Locale()
	unit, _ := cfg.Currency()

	gw, err := gateway.New(apiClient, gateway.Backends(apiClient),
		gateway.WithLogger(logger),
		gateway.WithCatalog(catalog),
		gateway.WithPrometheus(libHTTP.NewProcessRegistry()),
		gateway.WithMetrics(telemetry.MetricsFactory),
		gateway.WithSessionTTL(time.Duration(cfg.SessionTTLMinutes)*time.Minute),
		gateway.WithCurrency(unit),
		gateway.WithDefaultLocale(locale),
		gateway.WithVersion(cfg.Version),
		gateway.WithHealth(breakerStatus(checker)),
	)
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	app := server.NewApp(server.AppConfig{
		AppName:        cfg.OtelServiceName,
		Logger:         logger,
		TracerProvider: telemetry.TracerProvider,
		CORS:           libHTTP.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins},
	})
	gw.RegisterRoutes(app)

	checker.Start(ctx)

	logger.Log(ctx, log.LevelInfo, "portal gateway configured",
		log.String("address", cfg.ServerAddress),
		log.String("backend", cfg.PortalAPIBaseURL),
		log.String("version", cfg.Version),
	)

	return server.NewServerManager(telemetry, logger).
		WithHTTPServer(app, cfg.ServerAddress).
		WithShutdownTimeout(seconds(cfg.ShutdownTimeoutSeconds)).
		WithCloser("wizard sessions", func(ctx context.Context) error {
			gw.Shutdown(ctx)
			return nil
		}).
		WithCloser("health checker", func(context.Context) error {
			checker.Stop()
			return nil
		}).
		StartWithGracefulShutdown(ctx)
}

// loadCatalog returns the built-in messages, extended by path when set.
func loadCatalog(path string) (*i18n.Catalog, error) {
	catalog := i18n.DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open messages file: %w", err)
	}
	defer f.Close()

	if err := catalog.LoadYAML(f); err != nil {
		return nil, fmt.Errorf("failed to load messages file %s: %w", path, err)
	}

	return catalog, nil
}

func breakerStatus(checker *circuitbreaker.HealthChecker) func() map[string]string {
	return func() map[string]string {
		states := checker.Status()

		out := make(map[string]string, len(states))
		for name, state := range states {
			out[name] = string(state)
		}

		return out
	}
}
