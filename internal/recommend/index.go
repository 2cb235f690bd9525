// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"fmt"

	"github.com/tomtom215/smartbuy/internal/recommend/algorithms"
)

// IdentifierIndex maps user and product IDs to dense matrix rows.
// Rows are assigned in first-seen order while scanning interactions, so
// both ranges are exactly [0, N).
type IdentifierIndex struct {
	userRows map[int64]int
	itemRows map[int64]int
	userIDs  []int64
	itemIDs  []int64
}

// BuildIdentifierIndex indexes every user and destination product in the
// attributable (non-anonymous) interactions.
func BuildIdentifierIndex(interactions []Interaction) *IdentifierIndex {
	ix := &IdentifierIndex{
		userRows: make(map[int64]int),
		itemRows: make(map[int64]int),
	}
	for _, in := range interactions {
		if in.Anonymous() {
			continue
		}
		if _, ok := ix.userRows[in.UserID]; !ok {
			ix.userRows[in.UserID] = len(ix.userIDs)
			ix.userIDs = append(ix.userIDs, in.UserID)
		}
		if _, ok := ix.itemRows[in.ItemID]; !ok {
			ix.itemRows[in.ItemID] = len(ix.itemIDs)
			ix.itemIDs = append(ix.itemIDs, in.ItemID)
		}
	}
	return ix
}

// Pairs converts the attributable interactions to (user row, item row)
// training pairs. Every pair carries the implicit label 1.
func (ix *IdentifierIndex) Pairs(interactions []Interaction) []algorithms.Pair {
	pairs := make([]algorithms.Pair, 0, len(interactions))
	for _, in := range interactions {
		if in.Anonymous() {
			continue
		}
		u, uok := ix.userRows[in.UserID]
		i, iok := ix.itemRows[in.ItemID]
		if !uok || !iok {
			continue
		}
		pairs = append(pairs, algorithms.Pair{User: u, Item: i})
	}
	return pairs
}

// UserRow returns the row of a user.
func (ix *IdentifierIndex) UserRow(userID int64) (int, bool) {
	row, ok := ix.userRows[userID]
	return row, ok
}

// ItemRow returns the row of a product.
func (ix *IdentifierIndex) ItemRow(itemID int64) (int, bool) {
	row, ok := ix.itemRows[itemID]
	return row, ok
}

// ItemID returns the product stored at row.
func (ix *IdentifierIndex) ItemID(row int) (int64, bool) {
	if row < 0 || row >= len(ix.itemIDs) {
		return 0, false
	}
	return ix.itemIDs[row], true
}

// NumUsers returns the number of user rows.
func (ix *IdentifierIndex) NumUsers() int { return len(ix.userIDs) }

// NumItems returns the number of product rows.
func (ix *IdentifierIndex) NumItems() int { return len(ix.itemIDs) }

// Empty reports whether no rows were assigned.
func (ix *IdentifierIndex) Empty() bool {
	return len(ix.userIDs) == 0 || len(ix.itemIDs) == 0
}

// Validate checks that both mappings are bijections onto a dense range.
func (ix *IdentifierIndex) Validate() error {
	if len(ix.userRows) != len(ix.userIDs) {
		return fmt.Errorf("user mapping has %d keys for %d rows", len(ix.userRows), len(ix.userIDs))
	}
	for row, id := range ix.userIDs {
		if got := ix.userRows[id]; got != row {
			return fmt.Errorf("user %d maps to row %d, stored at row %d", id, got, row)
		}
	}
	if len(ix.itemRows) != len(ix.itemIDs) {
		return fmt.Errorf("item mapping has %d keys for %d rows", len(ix.itemRows), len(ix.itemIDs))
	}
	for row, id := range ix.itemIDs {
		if got := ix.itemRows[id]; got != row {
			return fmt.Errorf("item %d maps to row %d, stored at row %d", id, got, row)
		}
	}
	return nil
}
