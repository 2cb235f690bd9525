// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// ErrEmptyCatalog means demo navigations were requested before any
// product was loaded.
var ErrEmptyCatalog = errors.New("catalog has no products")

// Fixture is the JSON seed file layout.
type Fixture struct {
	Categories  []Category   `json:"categories"`
	Products    []Product    `json:"products"`
	Navigations []Navigation `json:"navigations"`
}

// SeedResult counts the rows a seeding call wrote.
type SeedResult struct {
	Categories  int `json:"categories"`
	Products    int `json:"products"`
	Navigations int `json:"navigations"`
}

// demoSearchQueries are the queries attached to generated search navigations.
var demoSearchQueries = []string{
	"smartphone", "headphones", "laptop", "television", "speaker", "monitor",
}

// SeedFromFile loads a JSON fixture of categories, products and
// navigations. Categories and products are upserted, navigations are
// appended. The whole fixture is applied in one transaction.
func (db *DB) SeedFromFile(ctx context.Context, path string) (SeedResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied seed path
	if err != nil {
		return SeedResult{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return SeedResult{}, fmt.Errorf("parse seed file %s: %w: %w", path, ErrInvalidFixture, err)
	}

	result, err := db.ApplyFixture(ctx, &fixture)
	if err != nil {
		return SeedResult{}, fmt.Errorf("apply seed file %s: %w", path, err)
	}

	db.logger.Info().
		Str("path", path).
		Int("categories", result.Categories).
		Int("products", result.Products).
		Int("navigations", result.Navigations).
		Msg("Seed fixture loaded")

	return result, nil
}

// ApplyFixture writes a decoded fixture in one transaction.
func (db *DB) ApplyFixture(ctx context.Context, fixture *Fixture) (SeedResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return SeedResult{}, fmt.Errorf("begin transaction: %w", err)
	}

	result, err := db.applyFixtureTx(ctx, tx, fixture)
	if err != nil {
		rollbackQuietly(tx)
		return SeedResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, fmt.Errorf("commit fixture: %w", err)
	}
	return result, nil
}

func (db *DB) applyFixtureTx(ctx context.Context, tx *sql.Tx, fixture *Fixture) (SeedResult, error) {
	var result SeedResult
	now := db.now().UTC()

	for _, c := range fixture.Categories {
		if c.Name == "" {
			return result, fmt.Errorf("category %d has no name: %w", c.ID, ErrInvalidFixture)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, description)
			VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description`,
			c.ID, c.Name, nullableString(c.Description))
		if err != nil {
			return result, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		result.Categories++
	}

	for _, p := range fixture.Products {
		if p.Name == "" || p.Price < 0 {
			return result, fmt.Errorf("product %d needs a name and a non-negative price: %w", p.ID, ErrInvalidFixture)
		}
		if err := upsertProductTx(ctx, tx, p, now); err != nil {
			return result, err
		}
		result.Products++
	}

	for i, nav := range fixture.Navigations {
		if _, err := db.insertNavigationTx(ctx, tx, nav); err != nil {
			if errors.Is(err, ErrUnknownProduct) {
				return result, fmt.Errorf("navigation %d: %w: %w", i, ErrInvalidFixture, err)
			}
			return result, err
		}
		result.Navigations++
	}

	return result, nil
}

// SeedDemoNavigations generates perUser navigations for each of users new
// demo users, numbered after the highest user ID already recorded. Each
// navigation is one of three kinds chosen uniformly: a search (with a
// query), a product-to-product navigation (with a source product other
// than the destination) or an external entry. Timestamps fall within the
// last 30 days. The same seed over the same catalog produces the same
// navigations apart from the time base.
func (db *DB) SeedDemoNavigations(ctx context.Context, users, perUser int, seed int64) (int, error) {
	if users <= 0 || perUser <= 0 {
		return 0, nil
	}

	items, err := db.ListCatalogItems(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, ErrEmptyCatalog
	}
	productIDs := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ID
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	var maxUser int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(user_id), 0) FROM product_navigations`).Scan(&maxUser); err != nil {
		rollbackQuietly(tx)
		return 0, fmt.Errorf("find highest user id: %w", err)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // demo data
	base := db.now().UTC().Add(-30 * 24 * time.Hour)

	inserted := 0
	for u := 1; u <= users; u++ {
		userID := maxUser + int64(u)
		for range perUser {
			nav := demoNavigation(rng, productIDs, base)
			nav.UserID = &userID
			if _, err := db.insertNavigationTx(ctx, tx, nav); err != nil {
				rollbackQuietly(tx)
				return 0, fmt.Errorf("insert demo navigation: %w", err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit demo navigations: %w", err)
	}

	db.logger.Info().
		Int("users", users).
		Int("navigations", inserted).
		Int64("first_user_id", maxUser+1).
		Msg("Demo navigations generated")

	return inserted, nil
}

// demoNavigation draws one navigation of a random kind.
func demoNavigation(rng *rand.Rand, productIDs []int64, base time.Time) Navigation {
	destination := productIDs[rng.IntN(len(productIDs))]
	offset := time.Duration(rng.IntN(30))*24*time.Hour +
		time.Duration(rng.IntN(24))*time.Hour +
		time.Duration(rng.IntN(60))*time.Minute

	nav := Navigation{
		DestinationProductID: destination,
		CreatedAt:            base.Add(offset),
	}

	switch rng.IntN(3) {
	case 0: // search
		query := demoSearchQueries[rng.IntN(len(demoSearchQueries))]
		nav.SearchQuery = &query
	case 1: // product to product
		if len(productIDs) > 1 {
			source := productIDs[rng.IntN(len(productIDs)-1)]
			if source == destination {
				source = productIDs[len(productIDs)-1]
			}
			nav.SourceProductID = &source
		}
	default: // external
	}

	return nav
}
