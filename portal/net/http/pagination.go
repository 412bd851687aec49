package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/listing"
)

var (
	// ErrInvalidLimit is returned for a non-numeric limit.
	ErrInvalidLimit = errors.New("invalid limit value")
	// ErrInvalidOffset is returned for a non-numeric offset.
	ErrInvalidOffset = errors.New("invalid offset value")
	// ErrInvalidSortOrder is returned for a sort_order other than asc or desc.
	ErrInvalidSortOrder = errors.New("sort_order must be asc or desc")
)

// ParseListQuery reads limit, offset, sort_by, sort_order and q. Missing or
// non-positive limits fall back to the default and oversize limits are capped.
func ParseListQuery(c *fiber.Ctx) (listing.Query, error) {
	q := listing.Query{
		Limit:  constant.DefaultLimit,
		SortBy: strings.TrimSpace(c.Query("sort_by")),
		Search: strings.TrimSpace(c.Query("q")),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return listing.Query{}, fmt.Errorf("%w: %q", ErrInvalidLimit, raw)
		}

		if limit > 0 {
			q.Limit = min(limit, constant.MaxLimit)
		}
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return listing.Query{}, fmt.Errorf("%w: %q", ErrInvalidOffset, raw)
		}

		q.Offset = max(offset, 0)
	}

	if raw := strings.TrimSpace(c.Query("sort_order")); raw != "" {
		order, ok := constant.CanonicalSortOrder(raw)
		if !ok {
			return listing.Query{}, fmt.Errorf("%w: %q", ErrInvalidSortOrder, raw)
		}

		q.SortOrder = order
	}

	return q, nil
}
