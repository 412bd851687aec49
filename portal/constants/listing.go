package constant

import "strings"

// Page bounds for the contracts, payments and transactions tables.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Sort orders accepted by sort_order. The wire form is case-insensitive; the
// canonical form is upper case.
const (
	SortAscending  = "ASC"
	SortDescending = "DESC"
)

// CanonicalSortOrder upper-cases raw and reports whether it names a known
// order. Blank input is not an order.
func CanonicalSortOrder(raw string) (string, bool) {
	order := strings.ToUpper(strings.TrimSpace(raw))

	switch order {
	case SortAscending, SortDescending:
		return order, true
	default:
		return order, false
	}
}
