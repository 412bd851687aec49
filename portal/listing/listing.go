// Package listing pages, sorts and filters small in-memory tables such as the
// payment history, transactions and contracts returned by the backend.
package listing

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownSortField is returned when a query sorts by an undeclared column.
	ErrUnknownSortField = errors.New("listing: unknown sort field")
	// ErrInvalidSortOrder is returned for a sort order other than ASC or DESC.
	ErrInvalidSortOrder = errors.New("listing: sort order must be ASC or DESC")
)

// Query selects one page of a table.
type Query struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
	Search    string
}

// Page is one page of results. Total counts the filtered rows.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Column is a sortable and searchable attribute of T.
type Column[T any] struct {
	Compare func(a, b T) int
	// Text is matched case-insensitively against Query.Search. Nil columns
	// are not searched.
	Text func(T) string
}

// Schema declares the columns of T and the default sort.
type Schema[T any] struct {
	Columns     map[string]Column[T]
	DefaultSort string
	// DefaultOrder applies when the query names no order. Empty means DESC.
	DefaultOrder string
}

// StringColumn sorts and searches on a string attribute.
func StringColumn[T any](get func(T) string) Column[T] {
	return Column[T]{
		Compare: func(a, b T) int { return strings.Compare(get(a), get(b)) },
		Text:    get,
	}
}

// DecimalColumn sorts on a decimal attribute and searches its plain text.
func DecimalColumn[T any](get func(T) decimal.Decimal) Column[T] {
	return Column[T]{
		Compare: func(a, b T) int { return get(a).Cmp(get(b)) },
		Text:    func(v T) string { return get(v).String() },
	}
}

// OrderedColumn sorts on any ordered attribute without taking part in search.
func OrderedColumn[T any, V cmp.Ordered](get func(T) V) Column[T] {
	return Column[T]{
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

// Apply filters, sorts and pages rows. rows is not modified.
func Apply[T any](rows []T, q Query, schema Schema[T]) (Page[T], error) {
	q = normalize(q, schema)

	column, ok := schema.Columns[q.SortBy]
	if q.SortBy != "" && !ok {
		return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownSortField, q.SortBy)
	}

	if _, valid := constant.CanonicalSortOrder(q.SortOrder); !valid {
		return Page[T]{}, fmt.Errorf("%w: %q", ErrInvalidSortOrder, q.SortOrder)
	}

	filtered := filter(rows, q.Search, schema)

	if ok && column.Compare != nil {
		slices.SortStableFunc(filtered, func(a, b T) int {
			if q.SortOrder == constant.SortDescending {
				return column.Compare(b, a)
			}

			return column.Compare(a, b)
		})
	}

	page := Page[T]{Total: len(filtered), Limit: q.Limit, Offset: q.Offset, Items: []T{}}

	if q.Offset < len(filtered) {
		end := min(q.Offset+q.Limit, len(filtered))
		page.Items = filtered[q.Offset:end]
	}

	return page, nil
}

func normalize[T any](q Query, schema Schema[T]) Query {
	if q.Limit <= 0 {
		q.Limit = constant.DefaultLimit
	}

	q.Limit = min(q.Limit, constant.MaxLimit)
	q.Offset = max(q.Offset, 0)
	q.SortBy = strings.TrimSpace(q.SortBy)
	q.SortOrder, _ = constant.CanonicalSortOrder(q.SortOrder)
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))

	if q.SortBy == "" {
		q.SortBy = schema.DefaultSort
	}

	if q.SortOrder == "" {
		q.SortOrder, _ = constant.CanonicalSortOrder(cmp.Or(schema.DefaultOrder, constant.SortDescending))
	}

	return q
}

func filter[T any](rows []T, search string, schema Schema[T]) []T {
	out := make([]T, 0, len(rows))

	if search == "" {
		return append(out, rows...)
	}

	for _, row := range rows {
		for _, column := range schema.Columns {
			if column.Text != nil && strings.Contains(strings.ToLower(column.Text(row)), search) {
				out = append(out, row)
				break
			}
		}
	}

	return out
}
