//go:build unit

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("PORTAL_API_BASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, 30, cfg.PortalAPITimeoutSeconds)
	assert.Equal(t, 2, cfg.PortalAPIReadRetries)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBaseURL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORTAL_API_BASE_URL", "https://api.example.com/")
	t.Setenv("PORTAL_API_READ_RETRIES", "4")
	t.Setenv("ENABLE_TELEMETRY", "true")
	t.Setenv("DEFAULT_LOCALE", "es")
	t.Setenv("DEFAULT_CURRENCY", "EUR")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.PortalAPIReadRetries)
	assert.True(t, cfg.EnableTelemetry)

	tag, err := cfg.Locale()
	require.NoError(t, err)
	assert.Equal(t, language.Spanish, tag)

	unit, err := cfg.Currency()
	require.NoError(t, err)
	assert.Equal(t, currency.EUR, unit)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("PORTAL_API_TIMEOUT_SECONDS", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORTAL_API_TIMEOUT_SECONDS")
}

func TestValidate_RejectsBadCurrency(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.PortalAPIBaseURL = "https://api.example.com"
	cfg.DefaultCurrency = "DOLLARS"

	assert.Error(t, cfg.Validate())
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("VERSION", "2.0.1")

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2.0.1\n", out.String())
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	c, err := loadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid amount", c.For("en").Localize("wizard.amount.invalid"))

	path := filepath.Join(t.TempDir(), "messages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fr:\n  wizard.amount.invalid: Montant invalide\n"), 0o600))

	c, err = loadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Montant invalide", c.For("fr-FR").Localize("wizard.amount.invalid"))

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
