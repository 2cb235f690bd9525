// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

// Package database is the DuckDB-backed catalog and navigation store.
//
// # Overview
//
// The store holds categories, products and product navigations, and
// serves them to the ranking engine through the recommend.DataProvider
// interface.
//
// # Files
//
//   - database.go: connection lifecycle and pool configuration
//   - database_schema.go: table and index creation
//   - products.go: category and product upserts
//   - navigations.go: navigation recording
//   - recommend_provider.go: recommend.DataProvider queries
//   - breaker.go: circuit breaker wrapper around any DataProvider
//   - seed.go: JSON fixture loading and demo navigation generation
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	provider := database.NewBreakerProvider(db, database.DefaultBreakerConfig(), logger)
//	engine, err := recommend.NewEngine(engineCfg, provider, logger)
//
// # Navigation Rules
//
// InsertNavigation stores a NULL source when the source product is not in
// the catalog, and rejects an unknown destination with ErrUnknownProduct.
// The ingest pipeline treats that error as permanent.
//
// # Timeouts
//
// Every query runs under DatabaseConfig.QueryTimeout (30s when unset).
// A caller deadline that is earlier still applies.
//
// # Metrics
//
// Queries report duckdb_query_duration_seconds and
// duckdb_query_errors_total by operation and table. The breaker reports
// circuit_breaker_* series labelled with its name.
package database
