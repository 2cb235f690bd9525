// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import "sort"

// SortKey overrides the natural order of a ranking source.
type SortKey string

const (
	// SortNone keeps the source order.
	SortNone           SortKey = ""
	SortNewest         SortKey = "newest"
	SortPriceLowToHigh SortKey = "priceLowToHigh"
	SortPriceHighToLow SortKey = "priceHighToLow"
	SortPopularity     SortKey = "popularity"
)

// ParseSortKey maps a request parameter to a SortKey. Unknown values map
// to SortNone and report false.
func ParseSortKey(raw string) (SortKey, bool) {
	switch key := SortKey(raw); key {
	case SortNone, SortNewest, SortPriceLowToHigh, SortPriceHighToLow, SortPopularity:
		return key, true
	default:
		return SortNone, false
	}
}

// needsCounts reports whether the key orders by navigation count.
func (k SortKey) needsCounts() bool {
	return k == SortPopularity
}

// applySort reorders ids in place by key. The sort is stable, so products
// that compare equal keep their source order. IDs absent from catalog
// sort as zero-valued records.
func applySort(ids []int64, key SortKey, catalog map[int64]CatalogItem, counts map[int64]int) {
	var less func(a, b int64) bool

	switch key {
	case SortNewest:
		less = func(a, b int64) bool {
			return catalog[a].CreatedAt.After(catalog[b].CreatedAt)
		}
	case SortPriceLowToHigh:
		less = func(a, b int64) bool {
			return catalog[a].Price < catalog[b].Price
		}
	case SortPriceHighToLow:
		less = func(a, b int64) bool {
			return catalog[a].Price > catalog[b].Price
		}
	case SortPopularity:
		less = func(a, b int64) bool {
			return counts[a] > counts[b]
		}
	default:
		return
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return less(ids[i], ids[j])
	})
}
