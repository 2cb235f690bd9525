// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterCriteria carries the raw, unvalidated request parameters that
// narrow a ranking.
type FilterCriteria struct {
	// Query selects the lexical source when non-empty.
	Query string `json:"query,omitempty"`

	// PriceMin and PriceMax are inclusive bounds. Empty means unbounded.
	PriceMin string `json:"price_min,omitempty"`
	PriceMax string `json:"price_max,omitempty"`

	// Categories keeps products in at least one of these category IDs.
	Categories []string `json:"categories,omitempty"`
}

// Filter is the parsed attribute predicate built from FilterCriteria.
// The zero value allows every product.
type Filter struct {
	minPrice   *float64
	maxPrice   *float64
	categories map[int64]struct{}
	dropped    []string
}

// ParseFilter builds a Filter, dropping every criterion that fails to
// parse. The returned error wraps ErrMalformedFilter once per dropped
// criterion and is informational: the Filter is always usable.
func ParseFilter(c FilterCriteria) (Filter, error) {
	var f Filter
	var errs []error

	if v, err := parsePrice(c.PriceMin); err != nil {
		f.dropped = append(f.dropped, "price_min")
		errs = append(errs, fmt.Errorf("%w: price_min %q", ErrMalformedFilter, c.PriceMin))
	} else {
		f.minPrice = v
	}

	if v, err := parsePrice(c.PriceMax); err != nil {
		f.dropped = append(f.dropped, "price_max")
		errs = append(errs, fmt.Errorf("%w: price_max %q", ErrMalformedFilter, c.PriceMax))
	} else {
		f.maxPrice = v
	}

	if len(c.Categories) > 0 {
		set := make(map[int64]struct{}, len(c.Categories))
		for _, raw := range c.Categories {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				set = nil
				f.dropped = append(f.dropped, "categories")
				errs = append(errs, fmt.Errorf("%w: category %q", ErrMalformedFilter, raw))
				break
			}
			set[id] = struct{}{}
		}
		f.categories = set
	}

	return f, errors.Join(errs...)
}

// parsePrice returns nil for an absent bound.
func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, fmt.Errorf("not a number")
	}
	return &v, nil
}

// Allows reports whether the product passes every active criterion.
func (f Filter) Allows(item CatalogItem) bool {
	if f.minPrice != nil && item.Price < *f.minPrice {
		return false
	}
	if f.maxPrice != nil && item.Price > *f.maxPrice {
		return false
	}
	if f.categories != nil {
		for _, id := range item.CategoryIDs {
			if _, ok := f.categories[id]; ok {
				return true
			}
		}
		return false
	}
	return true
}

// Dropped names the criteria discarded because they failed to parse.
func (f Filter) Dropped() []string {
	return f.dropped
}

// empty reports whether the filter allows every product.
func (f Filter) empty() bool {
	return f.minPrice == nil && f.maxPrice == nil && f.categories == nil
}
