// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/smartbuy/internal/metrics"
)

// Navigation is one product page view.
type Navigation struct {
	// UserID is nil for anonymous visitors.
	UserID *int64 `json:"user_id,omitempty"`

	// SourceProductID is the product page the visitor came from.
	SourceProductID *int64 `json:"source_product_id,omitempty"`

	// SearchQuery is the search that led to the destination.
	SearchQuery *string `json:"search_query,omitempty"`

	DestinationProductID int64     `json:"destination_product_id"`
	CreatedAt            time.Time `json:"created_at"`
}

// InsertNavigation stores a navigation and returns its ID.
//
// A source product that is not in the catalog is stored as NULL. A
// destination product that is not in the catalog is rejected with
// ErrUnknownProduct. A zero CreatedAt is replaced by the current time and
// a blank search query is stored as NULL.
func (db *DB) InsertNavigation(ctx context.Context, nav Navigation) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	id, err := db.insertNavigation(ctx, nav)
	metrics.RecordDBQuery("insert", "product_navigations", time.Since(start), err)
	return id, err
}

func (db *DB) insertNavigation(ctx context.Context, nav Navigation) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	id, err := db.insertNavigationTx(ctx, tx, nav)
	if err != nil {
		rollbackQuietly(tx)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit navigation: %w", err)
	}
	return id, nil
}

func (db *DB) insertNavigationTx(ctx context.Context, tx *sql.Tx, nav Navigation) (int64, error) {
	ok, err := productExists(ctx, tx, nav.DestinationProductID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("destination product %d: %w", nav.DestinationProductID, ErrUnknownProduct)
	}

	if nav.SourceProductID != nil {
		ok, err := productExists(ctx, tx, *nav.SourceProductID)
		if err != nil {
			return 0, err
		}
		if !ok {
			db.logger.Debug().
				Int64("source_product_id", *nav.SourceProductID).
				Msg("Dropping unknown source product from navigation")
			nav.SourceProductID = nil
		}
	}

	if nav.SearchQuery != nil && strings.TrimSpace(*nav.SearchQuery) == "" {
		nav.SearchQuery = nil
	}

	createdAt := nav.CreatedAt.UTC()
	if nav.CreatedAt.IsZero() {
		createdAt = db.now().UTC()
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO product_navigations (user_id, source_product_id, search_query, destination_product_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		nav.UserID, nav.SourceProductID, nav.SearchQuery, nav.DestinationProductID, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert navigation: %w", err)
	}
	return id, nil
}
