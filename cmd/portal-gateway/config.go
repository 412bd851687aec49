package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// ErrMissingBaseURL is returned when PORTAL_API_BASE_URL is unset.
var ErrMissingBaseURL = errors.New("PORTAL_API_BASE_URL is required")

// Config is the gateway configuration, read from the environment.
type Config struct {
	EnvName                 string `env:"ENV_NAME"`
	LogLevel                string `env:"LOG_LEVEL"`
	ServerAddress           string `env:"SERVER_ADDRESS"`
	PortalAPIBaseURL        string `env:"PORTAL_API_BASE_URL"`
	PortalAPIToken          string `env:"PORTAL_API_TOKEN"`
	PortalAPITimeoutSeconds int    `env:"PORTAL_API_TIMEOUT_SECONDS"`
	PortalAPIReadRetries    int    `env:"PORTAL_API_READ_RETRIES"`
	DefaultLocale           string `env:"DEFAULT_LOCALE"`
	DefaultCurrency         string `env:"DEFAULT_CURRENCY"`
	ShutdownTimeoutSeconds  int    `env:"SHUTDOWN_TIMEOUT_SECONDS"`
	SessionTTLMinutes       int    `env:"WIZARD_SESSION_TTL_MINUTES"`
	HealthCheckSeconds      int    `env:"HEALTH_CHECK_INTERVAL_SECONDS"`
	CORSAllowOrigins        string `env:"CORS_ALLOW_ORIGINS"`
	MessagesFile            string `env:"MESSAGES_FILE"`
	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
	Version                 string `env:"VERSION"`
}

func defaultConfig() Config {
	return Config{
		EnvName:                 string(zap.EnvironmentProduction),
		LogLevel:                "info",
		ServerAddress:           ":8080",
		PortalAPITimeoutSeconds: 30,
		PortalAPIReadRetries:    2,
		DefaultLocale:           "en",
		DefaultCurrency:         "USD",
		ShutdownTimeoutSeconds:  30,
		SessionTTLMinutes:       30,
		HealthCheckSeconds:      30,
		CORSAllowOrigins:        "*",
		OtelServiceName:         "portal-gateway",
		OtelLibraryName:         "github.com/sayjeyhi/loc-mp-v2-sub000",
		Version:                 Version,
	}
}

// LoadConfig reads the environment over the defaults.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if err := portal.SetConfigFromEnvVars(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Validate checks the values serve needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.PortalAPIBaseURL) == "" {
		return ErrMissingBaseURL
	}

	if _, err := c.Locale(); err != nil {
		return err
	}

	if _, err := c.Currency(); err != nil {
		return err
	}

	return nil
}

// Locale parses DEFAULT_LOCALE.
func (c Config) Locale() (language.Tag, error) {
	tag, err := language.Parse(c.DefaultLocale)
	if err != nil {
		return language.Und, fmt.Errorf("DEFAULT_LOCALE %q: %w", c.DefaultLocale, err)
	}

	return tag, nil
}

// Currency parses DEFAULT_CURRENCY.
func (c Config) Currency() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.DefaultCurrency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("DEFAULT_CURRENCY %q: %w", c.DefaultCurrency, err)
	}

	return unit, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
