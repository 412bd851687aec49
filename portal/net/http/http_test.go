//go:build unit

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/listing"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body
}

func TestExtractTokenFromHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "raw token", header: "abc", want: "abc"},
		{name: "other scheme", header: "Basic dXNlcg==", want: ""},
		{name: "empty", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()

			var got string

			app.Get("/", func(c *fiber.Ctx) error {
				got = ExtractTokenFromHeader(c)
				return NoContent(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{name: "error response", err: ErrorResponse{Code: http.StatusConflict, Title: "wizard_busy", Message: "busy"}, wantStatus: http.StatusConflict, wantTitle: "wizard_busy"},
		{name: "fiber error", err: fiber.ErrNotFound, wantStatus: http.StatusNotFound, wantTitle: "request_failed"},
		{name: "unknown error", err: errors.New("secret internals"), wantStatus: http.StatusInternalServerError, wantTitle: "request_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeError(t, resp)
			assert.Equal(t, tt.wantTitle, body.Title)
			assert.NotContains(t, body.Message, "secret")
		})
	}
}

func TestBusinessError(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return BusinessError(c, http.StatusBadRequest, "invalid_amount", portal.Response{Code: "0001", Message: "Please enter a valid amount"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	body := decodeError(t, resp)
	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.Equal(t, "0001", body.BusinessCode)
	assert.Equal(t, "Please enter a valid amount", body.Message)
}

func TestWithHTTPLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	app := fiber.New()
	app.Use(WithHTTPLogging(WithCustomLogger(log.NewGoLogger(&buf, log.LevelInfo))))

	var ctxRequestID string

	app.Get("/v1/account", func(c *fiber.Ctx) error {
		ctxRequestID = portal.HeaderIDFromContext(c.UserContext())
		return OK(c, fiber.Map{"ok": true})
	})
	app.Get("/health", func(c *fiber.Ctx) error { return OK(c, fiber.Map{}) })

	t.Run("propagates incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
		req.Header.Set("X-Request-Id", "req-123")

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
		assert.Equal(t, "req-123", ctxRequestID)
		assert.Contains(t, buf.String(), `"GET /v1/account" 200`)
		assert.Contains(t, buf.String(), "request_id=req-123")
	})

	t.Run("mints a request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/account", nil))
		require.NoError(t, err)

		assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
	})

	t.Run("skips health", func(t *testing.T) {
		buf.Reset()

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Empty(t, buf.String())
	})
}

func TestWithTelemetry(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	app := fiber.New()
	app.Use(WithTelemetry(tp))
	app.Get("/boom", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusBadGateway)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /boom", spans[0].Name())
}

func TestWithCORS(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Use(WithCORS(CORSConfig{AllowOrigins: "https://portal.example.com"}))
	app.Get("/", func(c *fiber.Ctx) error { return NoContent(c) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Traceparent")
}

func TestParseListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    listing.Query
		wantErr error
	}{
		{name: "defaults", query: "", want: listing.Query{Limit: 20}},
		{name: "all params", query: "?limit=5&offset=10&sort_by=amount&sort_order=asc&q=settled", want: listing.Query{Limit: 5, Offset: 10, SortBy: "amount", SortOrder: "ASC", Search: "settled"}},
		{name: "caps limit", query: "?limit=5000", want: listing.Query{Limit: 200}},
		{name: "non-positive limit uses default", query: "?limit=0&offset=-4", want: listing.Query{Limit: 20}},
		{name: "bad limit", query: "?limit=ten", wantErr: ErrInvalidLimit},
		{name: "bad offset", query: "?offset=x", wantErr: ErrInvalidOffset},
		{name: "bad order", query: "?sort_order=up", wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()

			var (
				got    listing.Query
				gotErr error
			)

			app.Get("/", func(c *fiber.Ctx) error {
				got, gotErr = ParseListQuery(c)
				return NoContent(c)
			})

			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, gotErr, tt.wantErr)
				return
			}

			require.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionAndHealth(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/version", Version("1.4.0"))
	app.Get("/health", Health(func() map[string]string { return map[string]string{"portal-api": "closed"} }))
	app.Get("/ping", Ping)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/version", nil))
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"version":"1.4.0"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)

	raw, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"available","dependencies":{"portal-api":"closed"}}`, string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)

	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(raw))
}

func TestPrometheus(t *testing.T) {
	t.Parallel()

	reg := NewProcessRegistry()
	app := fiber.New()
	app.Get("/metrics", Prometheus(reg))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "go_goroutines")
}
