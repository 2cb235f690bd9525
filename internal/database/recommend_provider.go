// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/smartbuy/internal/metrics"
	"github.com/tomtom215/smartbuy/internal/recommend"
)

// Ensure DB implements recommend.DataProvider
var _ recommend.DataProvider = (*DB)(nil)

// ListInteractions returns every recorded navigation, oldest first.
func (db *DB) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	interactions, err := db.listInteractions(ctx)
	metrics.RecordDBQuery("select", "product_navigations", time.Since(start), err)
	return interactions, err
}

func (db *DB) listInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, destination_product_id, created_at, source_product_id, search_query
		FROM product_navigations
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	var interactions []recommend.Interaction
	for rows.Next() {
		var (
			userID   sql.NullInt64
			source   sql.NullInt64
			query    sql.NullString
			interact recommend.Interaction
		)
		if err := rows.Scan(&userID, &interact.ItemID, &interact.CreatedAt, &source, &query); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if userID.Valid {
			interact.UserID = userID.Int64
		}
		if source.Valid {
			id := source.Int64
			interact.SourceItemID = &id
		}
		if query.Valid {
			q := query.String
			interact.SearchQuery = &q
		}
		interactions = append(interactions, interact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}

// ListCatalogItems returns every product with its sorted category IDs,
// ordered by product ID.
func (db *DB) ListCatalogItems(ctx context.Context) ([]recommend.CatalogItem, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	items, err := db.listCatalogItems(ctx)
	metrics.RecordDBQuery("select", "products", time.Since(start), err)
	return items, err
}

func (db *DB) listCatalogItems(ctx context.Context) ([]recommend.CatalogItem, error) {
	categories, err := db.productCategories(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), CAST(price AS DOUBLE), created_at
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	var items []recommend.CatalogItem
	for rows.Next() {
		var item recommend.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		item.CategoryIDs = categories[item.ID]
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return items, nil
}

// productCategories returns category IDs keyed by product, each slice sorted.
func (db *DB) productCategories(ctx context.Context) (map[int64][]int64, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT product_id, category_id
		FROM product_categories
		ORDER BY product_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("query product categories: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	out := make(map[int64][]int64)
	for rows.Next() {
		var productID, categoryID int64
		if err := rows.Scan(&productID, &categoryID); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		out[productID] = append(out[productID], categoryID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product categories: %w", err)
	}
	return out, nil
}

// CountDestinationEventsByItem returns navigation counts keyed by
// destination product. Products never navigated to are absent.
func (db *DB) CountDestinationEventsByItem(ctx context.Context) (map[int64]int, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	counts, err := db.countDestinationEvents(ctx)
	metrics.RecordDBQuery("aggregate", "product_navigations", time.Since(start), err)
	return counts, err
}

func (db *DB) countDestinationEvents(ctx context.Context) (map[int64]int, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT destination_product_id, COUNT(*)
		FROM product_navigations
		GROUP BY destination_product_id`)
	if err != nil {
		return nil, fmt.Errorf("query navigation counts: %w", err)
	}
	defer closeWithLog(rows, db.logger, "rows")

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			itemID int64
			n      int64
		)
		if err := rows.Scan(&itemID, &n); err != nil {
			return nil, fmt.Errorf("scan navigation count: %w", err)
		}
		counts[itemID] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate navigation counts: %w", err)
	}
	return counts, nil
}

// CountUserNavigations returns the number of navigations by one user.
func (db *DB) CountUserNavigations(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_navigations WHERE user_id = ?`, userID).Scan(&n)
	metrics.RecordDBQuery("count", "product_navigations", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count navigations of user %d: %w", userID, err)
	}
	return int(n), nil
}
