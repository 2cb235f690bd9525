// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"reflect"
	"testing"
	"time"
)

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   SortKey
		wantOK bool
	}{
		{raw: "", want: SortNone, wantOK: true},
		{raw: "newest", want: SortNewest, wantOK: true},
		{raw: "priceLowToHigh", want: SortPriceLowToHigh, wantOK: true},
		{raw: "priceHighToLow", want: SortPriceHighToLow, wantOK: true},
		{raw: "popularity", want: SortPopularity, wantOK: true},
		{raw: "Newest", want: SortNone, wantOK: false},
		{raw: "rating", want: SortNone, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseSortKey(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSortKey(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestApplySort(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	catalog := map[int64]CatalogItem{
		1: {ID: 1, Price: 20, CreatedAt: base},
		2: {ID: 2, Price: 10, CreatedAt: base.Add(time.Hour)},
		3: {ID: 3, Price: 20, CreatedAt: base.Add(2 * time.Hour)},
		4: {ID: 4, Price: 5, CreatedAt: base.Add(time.Hour)},
	}
	counts := map[int64]int{1: 2, 3: 2, 4: 9}
	source := []int64{3, 1, 2, 4}

	tests := []struct {
		key  SortKey
		want []int64
	}{
		{key: SortNone, want: []int64{3, 1, 2, 4}},
		{key: SortKey("bogus"), want: []int64{3, 1, 2, 4}},
		{key: SortNewest, want: []int64{3, 2, 4, 1}},
		{key: SortPriceLowToHigh, want: []int64{4, 2, 3, 1}},
		{key: SortPriceHighToLow, want: []int64{3, 1, 2, 4}},
		{key: SortPopularity, want: []int64{4, 3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			t.Parallel()
			ids := append([]int64(nil), source...)
			applySort(ids, tt.key, catalog, counts)
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("applySort(%q) = %v, want %v", tt.key, ids, tt.want)
			}
		})
	}

	t.Run("absent product sorts as zero record", func(t *testing.T) {
		t.Parallel()
		ids := []int64{1, 42, 2}
		applySort(ids, SortPriceLowToHigh, catalog, nil)
		if want := []int64{42, 2, 1}; !reflect.DeepEqual(ids, want) {
			t.Errorf("applySort() = %v, want %v", ids, want)
		}
	})
}
