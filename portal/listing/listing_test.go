//go:build unit

package listing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	ID     string
	Date   string
	Amount decimal.Decimal
	Status string
	Seq    int
}

var paymentSchema = Schema[payment]{
	Columns: map[string]Column[payment]{
		"date":   StringColumn(func(p payment) string { return p.Date }),
		"amount": DecimalColumn(func(p payment) decimal.Decimal { return p.Amount }),
		"status": StringColumn(func(p payment) string { return p.Status }),
		"seq":    OrderedColumn(func(p payment) int { return p.Seq }),
	},
	DefaultSort: "date",
}

func payments() []payment {
	return []payment{
		{ID: "p1", Date: "2026-01-05", Amount: decimal.RequireFromString("250.00"), Status: "SETTLED", Seq: 3},
		{ID: "p2", Date: "2026-03-05", Amount: decimal.RequireFromString("1000"), Status: "PENDING", Seq: 1},
		{ID: "p3", Date: "2026-02-05", Amount: decimal.RequireFromString("75.5"), Status: "SETTLED", Seq: 2},
	}
}

func ids(items []payment) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}

	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     Query
		wantIDs   []string
		wantTotal int
	}{
		{name: "default sort is date descending", query: Query{}, wantIDs: []string{"p2", "p3", "p1"}, wantTotal: 3},
		{name: "amount ascending compares numerically", query: Query{SortBy: "amount", SortOrder: "asc"}, wantIDs: []string{"p3", "p1", "p2"}, wantTotal: 3},
		{name: "ordered column", query: Query{SortBy: "seq", SortOrder: "ASC"}, wantIDs: []string{"p2", "p3", "p1"}, wantTotal: 3},
		{name: "search is case-insensitive", query: Query{Search: "settled"}, wantIDs: []string{"p3", "p1"}, wantTotal: 2},
		{name: "search matches amounts", query: Query{Search: "75.5"}, wantIDs: []string{"p3"}, wantTotal: 1},
		{name: "limit and offset", query: Query{Limit: 1, Offset: 1}, wantIDs: []string{"p3"}, wantTotal: 3},
		{name: "offset past end", query: Query{Offset: 10}, wantIDs: []string{}, wantTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := Apply(payments(), tt.query, paymentSchema)
			require.NoError(t, err)

			assert.Equal(t, tt.wantIDs, ids(page.Items))
			assert.Equal(t, tt.wantTotal, page.Total)
		})
	}
}

func TestApply_Normalizes(t *testing.T) {
	t.Parallel()

	page, err := Apply(payments(), Query{Limit: 10_000, Offset: -3}, paymentSchema)
	require.NoError(t, err)

	assert.Equal(t, 200, page.Limit)
	assert.Equal(t, 0, page.Offset)

	page, err = Apply(payments(), Query{}, paymentSchema)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	_, err := Apply(payments(), Query{SortBy: "password"}, paymentSchema)
	assert.ErrorIs(t, err, ErrUnknownSortField)

	_, err = Apply(payments(), Query{SortOrder: "sideways"}, paymentSchema)
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	rows := payments()

	_, err := Apply(rows, Query{SortBy: "amount", SortOrder: "ASC"}, paymentSchema)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(rows))
}
