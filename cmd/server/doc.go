// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package main is the entry point for the SmartBuy ranking server.

SmartBuy ranks shop products for three request kinds: lexical search over
product text, personalized recommendations from a two-tower embedding model
trained on navigation history, and popularity. It also records product
navigations and serves an operations API.

# Application Architecture

	RootSupervisor ("smartbuy")
	├── DataSupervisor ("data-layer")
	│   └── Ingest consumer (Watermill router -> DuckDB)
	├── ModelSupervisor ("model-layer")
	│   └── Retrain service (startup + periodic freshness checks)
	└── APISupervisor ("api-layer")
	    └── HTTP server (Chi)

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Database: DuckDB schema, optional fixture and demo seeding
 4. Ranking engine over a circuit-breaker wrapped data provider
 5. Ingest pub/sub, consumer and publisher
 6. HTTP router and server
 7. Supervisor tree, served until SIGINT or SIGTERM

# Configuration

Common environment variables:

	DUCKDB_PATH=/data/smartbuy.duckdb
	SEED_FILE=/data/catalog.json          # JSON fixture loaded at startup
	SEED_DEMO_USERS=50 SEED_DEMO_PER_USER=10
	HTTP_PORT=8080
	LOG_LEVEL=info LOG_FORMAT=json
	RECOMMEND_REFRESH_INTERVAL=24h
	RECOMMEND_TRAIN_ON_STARTUP=true

See internal/config for the full list.
*/
package main
