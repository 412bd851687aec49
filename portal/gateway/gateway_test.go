//go:build unit

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/circuitbreaker"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/client"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/idempotency"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
	libHTTP "github.com/sayjeyhi/loc-mp-v2-sub000/portal/net/http"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/opentelemetry/metrics"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/wizard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var fees = decimal.RequireFromString("2.50")

type fakeBackend struct {
	mu         sync.Mutex
	quoteErr   error
	commitErrs []error
	commitKeys []string
	quoteGate  chan struct{}
	entered    chan struct{}
}

func (b *fakeBackend) Quote(_ context.Context, amount decimal.Decimal) (wizard.Quote, error) {
	if b.quoteGate != nil {
		b.entered <- struct{}{}
		<-b.quoteGate
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.quoteErr != nil {
		return wizard.Quote{}, b.quoteErr
	}

	return wizard.Quote{Amount: amount, Fees: fees, Total: amount.Add(fees)}, nil
}

func (b *fakeBackend) Commit(_ context.Context, amount decimal.Decimal, key string) (wizard.CommitResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.commitKeys = append(b.commitKeys, key)

	if len(b.commitErrs) > 0 {
		err := b.commitErrs[0]
		b.commitErrs = b.commitErrs[1:]

		if err != nil {
			return wizard.CommitResult{}, err
		}
	}

	return wizard.CommitResult{ID: "drw_1", Status: "pending", Amount: amount}, nil
}

func (b *fakeBackend) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.commitKeys...)
}

type fakeReader struct {
	err    error
	tokens []string
	mu     sync.Mutex
}

func (r *fakeReader) seen(ctx context.Context) {
	r.mu.Lock()
	r.tokens = append(r.tokens, client.TokenFromContext(ctx))
	r.mu.Unlock()
}

func (r *fakeReader) Account(ctx context.Context) (client.AccountSummary, error) {
	r.seen(ctx)

	if r.err != nil {
		return client.AccountSummary{}, r.err
	}

	return client.AccountSummary{
		AccountID:       "acc_1",
		Currency:        "USD",
		CreditLimit:     decimal.NewFromInt(50000),
		AvailableCredit: decimal.NewFromInt(42000),
	}, nil
}

func (r *fakeReader) Contracts(ctx context.Context) ([]client.Contract, error) {
	r.seen(ctx)
	return []client.Contract{}, r.err
}

func (r *fakeReader) Payments(ctx context.Context) ([]client.Payment, error) {
	r.seen(ctx)

	if r.err != nil {
		return nil, r.err
	}

	return []client.Payment{
		{ID: "p1", Date: "2026-01-05", Amount: decimal.NewFromInt(300), Status: "settled"},
		{ID: "p2", Date: "2026-02-05", Amount: decimal.NewFromInt(100), Status: "settled"},
		{ID: "p3", Date: "2026-03-05", Amount: decimal.NewFromInt(200), Status: "failed"},
	}, nil
}

func (r *fakeReader) Transactions(ctx context.Context) ([]client.Transaction, error) {
	r.seen(ctx)
	return []client.Transaction{}, r.err
}

type harness struct {
	app     *fiber.App
	gw      *Gateway
	draw    *fakeBackend
	reader  *fakeReader
	metrics *sdkmetric.ManualReader
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	factory, err := metrics.NewFactory(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("gateway-test"), log.NewNop())
	require.NoError(t, err)

	h := &harness{
		draw:    &fakeBackend{},
		reader:  &fakeReader{},
		metrics: reader,
	}

	var tokens int

	defaults := []Option{
		WithMetrics(factory),
		WithVersion("1.2.3"),
		WithKeyOptions(idempotency.WithTokenSource(func() string {
			tokens++
			return fmt.Sprintf("tok-%d", tokens)
		})),
	}

	gw, err := New(h.reader, map[wizard.Flow]wizard.Backend{
		constant.FlowDraw:       h.draw,
		constant.FlowPrepayment: &fakeBackend{},
	}, append(defaults, opts...)...)
	require.NoError(t, err)

	h.gw = gw
	h.app = fiber.New(fiber.Config{ErrorHandler: libHTTP.FiberErrorHandler})
	gw.RegisterRoutes(h.app)

	return h
}

func (h *harness) do(t *testing.T, method, path, body string, headers ...string) (int, WizardResponse) {
	t.Helper()

	status, raw := h.raw(t, method, path, body, headers...)

	var resp WizardResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &resp), string(raw))
	}

	return status, resp
}

func (h *harness) raw(t *testing.T, method, path, body string, headers ...string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func (h *harness) open(t *testing.T, flow string, headers ...string) string {
	t.Helper()

	status, resp := h.do(t, http.MethodPost, "/v1/wizards/"+flow, "", headers...)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.ID)

	return resp.ID
}

// toConfirming drives a draw session to the open disclaimer dialog.
func (h *harness) toConfirming(t *testing.T, id string) {
	t.Helper()

	base := "/v1/wizards/draw/" + id

	status, _ := h.do(t, http.MethodPut, base+"/amount", `{"amount":"1,000"}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodPost, base+"/continue", "")
	require.Equal(t, http.StatusOK, status)

	status, resp := h.do(t, http.MethodPost, base+"/confirmation", "")
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.State.ConfirmOpen)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, map[wizard.Flow]wizard.Backend{constant.FlowDraw: &fakeBackend{}})
	assert.ErrorIs(t, err, ErrNilReader)

	_, err = New(&fakeReader{}, nil)
	assert.ErrorIs(t, err, ErrNoBackends)

	_, err = New(&fakeReader{}, map[wizard.Flow]wizard.Backend{"refund": &fakeBackend{}})
	assert.ErrorIs(t, err, ErrUnknownFlow)
}

func TestDrawFlow_HappyPath(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.open(t, constant.FlowDraw)
	base := "/v1/wizards/draw/" + id

	status, resp := h.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "input", resp.State.Step)
	assert.False(t, resp.Busy)
	assert.Empty(t, resp.Notifications)

	h.toConfirming(t, id)

	status, resp = h.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "preview", resp.State.Step)
	assert.Equal(t, "1000", resp.State.Amount)
	require.NotNil(t, resp.State.Quote)
	assert.True(t, resp.State.Quote.Total.Equal(decimal.RequireFromString("1002.50")))
	require.NotNil(t, resp.Display)
	assert.Contains(t, resp.Display.Amount, "1,000.00")
	assert.Contains(t, resp.Display.Total, "1,002.50")

	status, resp = h.do(t, http.MethodPost, base+"/confirm", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "result", resp.State.Step)
	require.NotNil(t, resp.State.Result)
	assert.Equal(t, "drw_1", resp.State.Result.ID)
	assert.Nil(t, resp.State.Quote)
	require.NotNil(t, resp.Display)
	assert.Contains(t, resp.Display.Amount, "1,000.00")
	assert.Empty(t, resp.Display.Total)

	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, constant.MessageDrawCreated, resp.Notifications[0].Key)
	assert.Equal(t, "Your draw request was submitted", resp.Notifications[0].Message)

	assert.Equal(t, []string{"draw-create-tok-1"}, h.draw.keys())
}

func TestInvalidAmount_IsLocalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		language string
		want     string
	}{
		{name: "english fallback", language: "", want: "Please enter a valid amount"},
		{name: "spanish", language: "es-ES,es;q=0.9", want: "Introduce un importe válido"},
		{name: "unsupported falls back", language: "ja", want: "Please enter a valid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)

			var headers []string
			if tt.language != "" {
				headers = []string{constant.HeaderAcceptLanguage, tt.language}
			}

			id := h.open(t, constant.FlowDraw, headers...)
			base := "/v1/wizards/draw/" + id

			status, _ := h.do(t, http.MethodPut, base+"/amount", `{"amount":"-5"}`)
			require.Equal(t, http.StatusOK, status)

			status, resp := h.do(t, http.MethodPost, base+"/continue", "")
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "invalid_amount", resp.Error.Title)
			assert.Equal(t, "0001", resp.Error.BusinessCode)
			assert.Equal(t, "input", resp.State.Step)

			require.Len(t, resp.Notifications, 1)
			assert.Equal(t, tt.want, resp.Notifications[0].Message)
		})
	}
}

func TestConfirm_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		commitErr  error
		wantStatus int
		wantTitle  string
		wantCode   string
	}{
		{
			name:       "duplicate by status",
			commitErr:  &client.APIError{Status: http.StatusConflict, Message: "conflict"},
			wantStatus: http.StatusConflict,
			wantTitle:  "duplicate_request",
			wantCode:   "0002",
		},
		{
			name:       "duplicate by phrase",
			commitErr:  &client.APIError{Status: http.StatusUnprocessableEntity, DataReason: "concurrent request for this idempotencyKey"},
			wantStatus: http.StatusConflict,
			wantTitle:  "duplicate_request",
			wantCode:   "0002",
		},
		{
			name:       "server error",
			commitErr:  &client.APIError{Status: http.StatusInternalServerError, Message: "boom"},
			wantStatus: http.StatusBadGateway,
			wantTitle:  "backend_failure",
			wantCode:   "0006",
		},
		{
			name:       "breaker open",
			commitErr:  fmt.Errorf("%w: portal-api", circuitbreaker.ErrServiceUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantTitle:  "service_unavailable",
			wantCode:   "0006",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.draw.commitErrs = []error{tt.commitErr}

			id := h.open(t, constant.FlowDraw)
			h.toConfirming(t, id)

			status, resp := h.do(t, http.MethodPost, "/v1/wizards/draw/"+id+"/confirm", "")
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantTitle, resp.Error.Title)
			assert.Equal(t, tt.wantCode, resp.Error.BusinessCode)

			assert.Equal(t, "preview", resp.State.Step)
			assert.True(t, resp.State.ConfirmOpen)
			require.Len(t, resp.Notifications, 1)

			// Confirming again reuses the key and succeeds.
			status, resp = h.do(t, http.MethodPost, "/v1/wizards/draw/"+id+"/confirm", "")
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, "result", resp.State.Step)

			keys := h.draw.keys()
			require.Len(t, keys, 2)
			assert.Equal(t, keys[0], keys[1])
		})
	}
}

func TestWizard_TransitionAndLookupErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.open(t, constant.FlowDraw)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantTitle  string
	}{
		{name: "confirm at input", method: http.MethodPost, path: "/v1/wizards/draw/" + id + "/confirm", wantStatus: http.StatusConflict, wantTitle: "invalid_transition"},
		{name: "confirmation at input", method: http.MethodPost, path: "/v1/wizards/draw/" + id + "/confirmation", wantStatus: http.StatusConflict, wantTitle: "invalid_transition"},
		{name: "unknown session", method: http.MethodGet, path: "/v1/wizards/draw/nope", wantStatus: http.StatusNotFound, wantTitle: "session_not_found"},
		{name: "flow mismatch", method: http.MethodGet, path: "/v1/wizards/prepayment/" + id, wantStatus: http.StatusNotFound, wantTitle: "session_not_found"},
		{name: "bad body", method: http.MethodPut, path: "/v1/wizards/draw/" + id + "/amount", body: `[`, wantStatus: http.StatusBadRequest, wantTitle: "invalid_body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := h.raw(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, string(raw), `"title":"`+tt.wantTitle+`"`)
		})
	}

	status, raw := h.raw(t, http.MethodPost, "/v1/wizards/refund", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(raw), "unknown_flow")
}

func TestCloseForgetsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	id := h.open(t, constant.FlowPrepayment)
	assert.Equal(t, 1, h.gw.SessionCount())

	status, _ := h.raw(t, http.MethodDelete, "/v1/wizards/prepayment/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, 0, h.gw.SessionCount())

	status, _ = h.raw(t, http.MethodGet, "/v1/wizards/prepayment/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.raw(t, http.MethodDelete, "/v1/wizards/prepayment/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionIsBoundToOpeningToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	alice := []string{fiber.HeaderAuthorization, "Bearer alice-token"}
	bob := []string{fiber.HeaderAuthorization, "Bearer bob-token"}

	id := h.open(t, constant.FlowDraw, alice...)
	base := "/v1/wizards/draw/" + id

	status, _ := h.do(t, http.MethodPut, base+"/amount", `{"amount":"1,000"}`, alice...)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodPost, base+"/continue", "", alice...)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodPost, base+"/confirmation", "", alice...)
	require.Equal(t, http.StatusOK, status)

	tests := []struct {
		name    string
		method  string
		path    string
		headers []string
	}{
		{name: "other token reads", method: http.MethodGet, path: base, headers: bob},
		{name: "other token confirms", method: http.MethodPost, path: base + "/confirm", headers: bob},
		{name: "other token closes", method: http.MethodDelete, path: base, headers: bob},
		{name: "no token confirms", method: http.MethodPost, path: base + "/confirm"},
	}

	for _, tt := range tests {
		status, raw := h.raw(t, tt.method, tt.path, "", tt.headers...)
		assert.Equal(t, http.StatusNotFound, status, tt.name)

		var body libHTTP.ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &body), tt.name)
		assert.Equal(t, "session_not_found", body.Title, tt.name)
	}

	assert.Empty(t, h.draw.keys())
	assert.Equal(t, 1, h.gw.SessionCount())

	status, resp := h.do(t, http.MethodPost, base+"/confirm", "", alice...)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "result", resp.State.Step)
	assert.Equal(t, []string{"draw-create-tok-1"}, h.draw.keys())
}

func TestContinue_RejectsReentrantCalls(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.draw.quoteGate = make(chan struct{})
	h.draw.entered = make(chan struct{}, 1)

	id := h.open(t, constant.FlowDraw)
	base := "/v1/wizards/draw/" + id

	status, _ := h.do(t, http.MethodPut, base+"/amount", `{"amount":"250"}`)
	require.Equal(t, http.StatusOK, status)

	first := make(chan int, 1)

	go func() {
		resp, err := h.app.Test(httptest.NewRequest(http.MethodPost, base+"/continue", nil), -1)
		if err != nil {
			first <- 0
			return
		}

		first <- resp.StatusCode
	}()

	select {
	case <-h.draw.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("quote was never requested")
	}

	status, resp := h.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Busy)

	status, resp = h.do(t, http.MethodPost, base+"/continue", "")
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "wizard_busy", resp.Error.Title)
	assert.Equal(t, "0003", resp.Error.BusinessCode)

	close(h.draw.quoteGate)
	assert.Equal(t, http.StatusOK, <-first)

	status, resp = h.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "preview", resp.State.Step)
	assert.False(t, resp.Busy)
}

func TestQuoteFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.draw.quoteErr = errors.New("connection refused")

	id := h.open(t, constant.FlowDraw)
	base := "/v1/wizards/draw/" + id

	h.do(t, http.MethodPut, base+"/amount", `{"amount":"10"}`)

	status, resp := h.do(t, http.MethodPost, base+"/continue", "")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "input", resp.State.Step)
	assert.Equal(t, "10", resp.State.Amount)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, constant.MessageQuoteFailed, resp.Notifications[0].Key)
}

func TestWizardMetrics(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.draw.commitErrs = []error{&client.APIError{Status: http.StatusConflict}}

	id := h.open(t, constant.FlowDraw)
	h.toConfirming(t, id)
	h.do(t, http.MethodPost, "/v1/wizards/draw/"+id+"/confirm", "")
	h.do(t, http.MethodPost, "/v1/wizards/draw/"+id+"/confirm", "")

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.metrics.Collect(context.Background(), &rm))

	totals := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(1), totals[metrics.MetricWizardQuotes.Name])
	assert.Equal(t, int64(2), totals[metrics.MetricWizardCommits.Name])
	assert.Equal(t, int64(1), totals[metrics.MetricWizardDuplicateRejections.Name])
}

func TestListPayments(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	status, raw := h.raw(t, http.MethodGet, "/v1/payments?sort_by=amount&sort_order=asc&limit=2", "")
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Items []client.Payment `json:"items"`
		Total int              `json:"total"`
		Limit int              `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))

	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "p2", page.Items[0].ID)
	assert.Equal(t, "p3", page.Items[1].ID)

	status, raw = h.raw(t, http.MethodGet, "/v1/payments?q=failed", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, 1, page.Total)

	status, _ = h.raw(t, http.MethodGet, "/v1/payments?sort_by=color", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.raw(t, http.MethodGet, "/v1/payments?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = h.raw(t, http.MethodGet, "/v1/contracts", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"items":[]`)
}

func TestAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "backend rejects", err: &client.APIError{Status: http.StatusUnauthorized, Message: "token expired"}, wantStatus: http.StatusUnauthorized},
		{name: "backend down", err: &client.APIError{Status: http.StatusBadGateway}, wantStatus: http.StatusBadGateway},
		{name: "breaker open", err: circuitbreaker.ErrServiceUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.reader.err = tt.err

			status, raw := h.raw(t, http.MethodGet, "/v1/account", "", fiber.HeaderAuthorization, "Bearer user-token")
			assert.Equal(t, tt.wantStatus, status)

			if tt.err == nil {
				assert.Contains(t, string(raw), `"accountId":"acc_1"`)
			}

			assert.Equal(t, []string{"user-token"}, h.reader.tokens)
		})
	}
}

func TestHealthAndVersion(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithHealth(func() map[string]string {
		return map[string]string{client.ServiceName: string(circuitbreaker.StateClosed)}
	}))

	status, raw := h.raw(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"portal-api":"closed"`)

	status, raw = h.raw(t, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"version":"1.2.3"`)
}

func TestShutdownClosesSessions(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.open(t, constant.FlowDraw)
	h.open(t, constant.FlowPrepayment)
	require.Equal(t, 2, h.gw.SessionCount())

	h.gw.Shutdown(context.Background())
	assert.Equal(t, 0, h.gw.SessionCount())
}

func TestPrometheusSessionsGauge(t *testing.T) {
	t.Parallel()

	reg := libHTTP.NewProcessRegistry()
	h := newHarness(t, WithPrometheus(reg))
	h.open(t, constant.FlowDraw)

	status, raw := h.raw(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "portal_gateway_open_sessions 1")

	// A second gateway cannot claim the same gauge.
	_, err := New(&fakeReader{}, map[wizard.Flow]wizard.Backend{constant.FlowDraw: &fakeBackend{}}, WithPrometheus(reg))
	assert.Error(t, err)
}
