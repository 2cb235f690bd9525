// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
database_schema.go - Database Schema Management

Tables:
  - categories: catalog categories
  - products: catalog products (price stored as DECIMAL(10,2))
  - product_categories: many-to-many link between products and categories
  - product_navigations: one row per product page view, with the optional
    user, the product page the user came from and the search query that
    led there

There are no foreign keys; InsertNavigation and UpsertProduct check
references themselves.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db.createIndexes(ctx)
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		description VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		description VARCHAR,
		price DECIMAL(10,2) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_categories (
		product_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		PRIMARY KEY (product_id, category_id)
	)`,
	`CREATE SEQUENCE IF NOT EXISTS product_navigations_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS product_navigations (
		id BIGINT PRIMARY KEY DEFAULT nextval('product_navigations_id_seq'),
		user_id BIGINT,
		source_product_id BIGINT,
		search_query VARCHAR,
		destination_product_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_navigations_user ON product_navigations(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_navigations_destination ON product_navigations(destination_product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_product_categories_category ON product_categories(category_id)`,
}

// createIndexes creates the indexes used by the ranking queries
func (db *DB) createIndexes(ctx context.Context) error {
	for _, query := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
