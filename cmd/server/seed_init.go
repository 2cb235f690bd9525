// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package main

import (
	"context"

	"github.com/tomtom215/smartbuy/internal/config"
	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/logging"
)

// seedDatabase loads the configured fixture file, then generates demo
// navigations when requested.
func seedDatabase(ctx context.Context, db *database.DB, cfg *config.DatabaseConfig) error {
	if cfg.SeedFile != "" {
		if _, err := db.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			return err
		}
	}

	if cfg.SeedDemoEnabled() {
		logging.Info().
			Int("users", cfg.SeedDemoUsers).
			Int("per_user", cfg.SeedDemoPerUser).
			Msg("Demo navigation seeding enabled")
		if _, err := db.SeedDemoNavigations(ctx, cfg.SeedDemoUsers, cfg.SeedDemoPerUser, cfg.SeedDemoRandomSeed); err != nil {
			return err
		}
	}

	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		return err
	}
	logging.Info().
		Int64("categories", counts.Categories).
		Int64("products", counts.Products).
		Int64("navigations", counts.Navigations).
		Msg("Database ready")
	return nil
}
