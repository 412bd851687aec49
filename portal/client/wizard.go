package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/amount"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/wizard"
	"github.com/shopspring/decimal"
)

// Backend paths for the two money-movement flows.
const (
	PathDrawQuote       = "/v1/draws/quote"
	PathDraws           = "/v1/draws"
	PathPrepaymentQuote = "/v1/prepayments/quote"
	PathPrepayments     = "/v1/prepayments"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

type quoteResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Fees   decimal.Decimal `json:"fees"`
	Total  decimal.Decimal `json:"total"`
}

type commitResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

// WizardBackend implements wizard.Backend over a quote and a commit endpoint.
type WizardBackend struct {
	client     *Client
	name       string
	quotePath  string
	commitPath string
}

var _ wizard.Backend = (*WizardBackend)(nil)

// DrawBackend returns the backend of the draw flow.
func (c *Client) DrawBackend() *WizardBackend {
	return &WizardBackend{client: c, name: "draw", quotePath: PathDrawQuote, commitPath: PathDraws}
}

// PrepaymentBackend returns the backend of the prepayment flow.
func (c *Client) PrepaymentBackend() *WizardBackend {
	return &WizardBackend{client: c, name: "prepayment", quotePath: PathPrepaymentQuote, commitPath: PathPrepayments}
}

// Quote requests a preview for value. Quotes carry no idempotency key and
// are not retried here; the user retries by continuing again.
func (b *WizardBackend) Quote(ctx context.Context, value decimal.Decimal) (wizard.Quote, error) {
	body, err := b.client.call(ctx, request{
		operation: b.name + ".quote",
		method:    http.MethodPost,
		path:      b.quotePath,
		body:      amountRequest{Amount: amount.Wire(value)},
	})
	if err != nil {
		return wizard.Quote{}, err
	}

	var parsed quoteResponse
	if err := decode(body, &parsed); err != nil {
		return wizard.Quote{}, err
	}

	if parsed.Amount.IsZero() {
		parsed.Amount = value
	}

	return wizard.Quote{
		Amount:  parsed.Amount,
		Fees:    parsed.Fees,
		Total:   parsed.Total,
		Payload: json.RawMessage(body),
	}, nil
}

// Commit creates the draw or prepayment, sending key as Idempotence-Key.
func (b *WizardBackend) Commit(ctx context.Context, value decimal.Decimal, key string) (wizard.CommitResult, error) {
	body, err := b.client.call(ctx, request{
		operation:      b.name + ".commit",
		method:         http.MethodPost,
		path:           b.commitPath,
		body:           amountRequest{Amount: amount.Wire(value)},
		idempotencyKey: key,
	})
	if err != nil {
		return wizard.CommitResult{}, err
	}

	var parsed commitResponse
	if err := decode(body, &parsed); err != nil {
		return wizard.CommitResult{}, err
	}

	if parsed.Amount.IsZero() {
		parsed.Amount = value
	}

	return wizard.CommitResult{
		ID:      parsed.ID,
		Status:  parsed.Status,
		Amount:  parsed.Amount,
		Payload: json.RawMessage(body),
	}, nil
}
