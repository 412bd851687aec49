package client

import (
	"context"

	"github.com/shopspring/decimal"
)

// PathAccount is the line-of-credit summary endpoint.
const PathAccount = "/v1/account"

// AccountSummary is the line-of-credit position shown on the amount step.
type AccountSummary struct {
	AccountID            string          `json:"accountId"`
	Currency             string          `json:"currency"`
	CreditLimit          decimal.Decimal `json:"creditLimit"`
	AvailableCredit      decimal.Decimal `json:"availableCredit"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	NextPaymentDate      string          `json:"nextPaymentDate,omitempty"`
	NextPaymentAmount    decimal.Decimal `json:"nextPaymentAmount"`
}

// Account reads the account summary.
func (c *Client) Account(ctx context.Context) (AccountSummary, error) {
	var summary AccountSummary

	if err := c.read(ctx, "account", PathAccount, &summary); err != nil {
		return AccountSummary{}, err
	}

	return summary, nil
}
