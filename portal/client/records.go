package client

import (
	"context"

	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/listing"
	"github.com/shopspring/decimal"
)

// Read-only table endpoints.
const (
	PathContracts    = "/v1/contracts"
	PathPayments     = "/v1/payments"
	PathTransactions = "/v1/transactions"
)

// Contract is a signed draw agreement.
type Contract struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Status       string          `json:"status"`
	Principal    decimal.Decimal `json:"principal"`
	Rate         decimal.Decimal `json:"rate"`
	SignedAt     string          `json:"signedAt"`
	MaturityDate string          `json:"maturityDate,omitempty"`
}

// Payment is an entry of the payment history.
type Payment struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	Method string          `json:"method,omitempty"`
}

// Transaction is a ledger movement on the line of credit.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
}

type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

// Contracts reads every contract.
func (c *Client) Contracts(ctx context.Context) ([]Contract, error) {
	return readItems[Contract](ctx, c, "contracts", PathContracts)
}

// Payments reads the payment history.
func (c *Client) Payments(ctx context.Context) ([]Payment, error) {
	return readItems[Payment](ctx, c, "payments", PathPayments)
}

// Transactions reads the transactions of the line of credit.
func (c *Client) Transactions(ctx context.Context) ([]Transaction, error) {
	return readItems[Transaction](ctx, c, "transactions", PathTransactions)
}

func readItems[T any](ctx context.Context, c *Client, operation, path string) ([]T, error) {
	var envelope itemsEnvelope[T]

	if err := c.read(ctx, operation, path, &envelope); err != nil {
		return nil, err
	}

	if envelope.Items == nil {
		return []T{}, nil
	}

	return envelope.Items, nil
}

// ContractSchema declares the sortable columns of the contracts table.
var ContractSchema = listing.Schema[Contract]{
	Columns: map[string]listing.Column[Contract]{
		"reference":    listing.StringColumn(func(v Contract) string { return v.Reference }),
		"status":       listing.StringColumn(func(v Contract) string { return v.Status }),
		"principal":    listing.DecimalColumn(func(v Contract) decimal.Decimal { return v.Principal }),
		"rate":         listing.DecimalColumn(func(v Contract) decimal.Decimal { return v.Rate }),
		"signedAt":     listing.StringColumn(func(v Contract) string { return v.SignedAt }),
		"maturityDate": listing.StringColumn(func(v Contract) string { return v.MaturityDate }),
	},
	DefaultSort: "signedAt",
}

// PaymentSchema declares the sortable columns of the payment history.
var PaymentSchema = listing.Schema[Payment]{
	Columns: map[string]listing.Column[Payment]{
		"date":   listing.StringColumn(func(v Payment) string { return v.Date }),
		"amount": listing.DecimalColumn(func(v Payment) decimal.Decimal { return v.Amount }),
		"status": listing.StringColumn(func(v Payment) string { return v.Status }),
		"method": listing.StringColumn(func(v Payment) string { return v.Method }),
	},
	DefaultSort: "date",
}

// TransactionSchema declares the sortable columns of the transactions table.
var TransactionSchema = listing.Schema[Transaction]{
	Columns: map[string]listing.Column[Transaction]{
		"date":        listing.StringColumn(func(v Transaction) string { return v.Date }),
		"type":        listing.StringColumn(func(v Transaction) string { return v.Type }),
		"description": listing.StringColumn(func(v Transaction) string { return v.Description }),
		"amount":      listing.DecimalColumn(func(v Transaction) decimal.Decimal { return v.Amount }),
		"balance":     listing.DecimalColumn(func(v Transaction) decimal.Decimal { return v.Balance }),
	},
	DefaultSort: "date",
}
