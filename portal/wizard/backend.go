package wizard

import (
	"context"
	"encoding/json"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/idempotency"
	"github.com/shopspring/decimal"
)

// Quote is the server-computed preview for a requested amount. Fields the core
// reads are typed; everything else stays in Payload untouched.
type Quote struct {
	Amount  decimal.Decimal `json:"amount"`
	Fees    decimal.Decimal `json:"fees"`
	Total   decimal.Decimal `json:"total"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CommitResult is the server-returned outcome of a commit.
type CommitResult struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Backend is the pair of endpoints a flow needs.
//
// Quote must be side-effect free. Commit must send idempotencyKey so the
// backend can deduplicate retries.
type Backend interface {
	Quote(ctx context.Context, amount decimal.Decimal) (Quote, error)
	Commit(ctx context.Context, amount decimal.Decimal, idempotencyKey string) (CommitResult, error)
}

// KeyManager issues the retry-stable commit key. *idempotency.Manager
// implements it.
type KeyManager interface {
	Key() string
	Reset()
}

// Classifier decides whether a commit failure is a duplicate rejection.
// *idempotency.Classifier implements it.
type Classifier interface {
	Classify(err error) idempotency.Classification
}
