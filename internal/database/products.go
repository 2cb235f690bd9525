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
)

// Category is a catalog category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog product with its category links.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	CategoryIDs []int64   `json:"category_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// RecordCounts is the number of rows in each catalog table.
type RecordCounts struct {
	Categories  int64 `json:"categories"`
	Products    int64 `json:"products"`
	Navigations int64 `json:"navigations"`
}

// UpsertCategory inserts a category or updates its name and description.
func (db *DB) UpsertCategory(ctx context.Context, c Category) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO categories (id, name, description)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description`,
		c.ID, c.Name, nullableString(c.Description))
	metrics.RecordDBQuery("upsert", "categories", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert category %d: %w", c.ID, err)
	}
	return nil
}

// UpsertProduct inserts a product or replaces its fields, then makes its
// category links match p.CategoryIDs. A zero CreatedAt keeps the stored
// creation time, or uses the current time for a new product.
func (db *DB) UpsertProduct(ctx context.Context, p Product) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := upsertProductTx(ctx, tx, p, db.now().UTC()); err != nil {
		rollbackQuietly(tx)
		metrics.RecordDBQuery("upsert", "products", time.Since(start), err)
		return err
	}

	err = tx.Commit()
	metrics.RecordDBQuery("upsert", "products", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("commit product %d: %w", p.ID, err)
	}
	return nil
}

func upsertProductTx(ctx context.Context, tx *sql.Tx, p Product, now time.Time) error {
	createdAt := p.CreatedAt.UTC()
	if p.CreatedAt.IsZero() {
		createdAt = now
	}

	// created_at is only written on insert unless the caller supplied one.
	_, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			price = excluded.price,
			created_at = CASE WHEN ? THEN excluded.created_at ELSE created_at END,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, nullableString(p.Description), p.Price, createdAt, now, !p.CreatedAt.IsZero())
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", p.ID, err)
	}

	return syncProductCategories(ctx, tx, p.ID, p.CategoryIDs)
}

// syncProductCategories adds missing links and removes stale ones without
// deleting and re-inserting the same key inside one transaction.
func syncProductCategories(ctx context.Context, tx *sql.Tx, productID int64, categoryIDs []int64) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT category_id FROM product_categories WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("load categories of product %d: %w", productID, err)
	}
	existing := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("scan category link: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return fmt.Errorf("iterate category links: %w", err)
	}
	closeQuietly(rows)

	wanted := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = true
		if existing[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)`, productID, id); err != nil {
			return fmt.Errorf("link product %d to category %d: %w", productID, id, err)
		}
		existing[id] = true
	}

	for id := range existing {
		if wanted[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM product_categories WHERE product_id = ? AND category_id = ?`, productID, id); err != nil {
			return fmt.Errorf("unlink product %d from category %d: %w", productID, id, err)
		}
	}

	return nil
}

// ProductExists reports whether a product with the given ID is in the catalog.
func (db *DB) ProductExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	return productExists(ctx, db.conn, id)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func productExists(ctx context.Context, q queryer, id int64) (bool, error) {
	var n int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("look up product %d: %w", id, err)
	}
	return n > 0, nil
}

// GetRecordCounts returns the count of records in the catalog tables.
func (db *DB) GetRecordCounts(ctx context.Context) (RecordCounts, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var counts RecordCounts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM product_navigations)`).
		Scan(&counts.Categories, &counts.Products, &counts.Navigations)
	if err != nil {
		return RecordCounts{}, fmt.Errorf("count records: %w", err)
	}
	return counts, nil
}

// nullableString maps an empty string to NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
