// Package filter reads purchase list filters from a query string. The list
// and export endpoints share it so the same query selects the same rows.
package filter

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// Parse reads the row filters. "all" as a status or priority means no
// constraint. Pagination is left to Page.
func Parse(q url.Values) (purchase.ListFilter, error) {
	filter := purchase.ListFilter{
		Department: q.Get("department"),
		DateFrom:   q.Get("dateFrom"),
		DateTo:     q.Get("dateTo"),
		Search:     q.Get("search"),
	}

	if s := q.Get("status"); s != "" && s != "all" {
		filter.Status = new(purchase.Status(s))
	}

	if s := q.Get("priority"); s != "" && s != "all" {
		filter.Priority = new(purchase.Priority(s))
	}

	for _, bound := range []struct {
		key string
		dst **decimal.Decimal
	}{
		{"minAmount", &filter.MinAmount},
		{"maxAmount", &filter.MaxAmount},
	} {
		s := q.Get(bound.key)
		if s == "" {
			continue
		}

		d, err := decimal.NewFromString(s)
		if err != nil {
			return filter, fmt.Errorf("invalid %s %q", bound.key, s)
		}

		*bound.dst = &d
	}

	return filter, nil
}

// Page applies limit and offset. A missing limit uses def; larger limits are
// clamped to maxLimit.
func Page(q url.Values, filter *purchase.ListFilter, def, maxLimit int) error {
	filter.Limit = def

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", s)
		}

		filter.Limit = min(n, maxLimit)
	}

	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid offset %q", s)
		}

		filter.Offset = n
	}

	return nil
}
