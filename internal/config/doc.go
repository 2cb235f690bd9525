// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package config provides centralized configuration management for SmartBuy.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file, then environment variables. The file is taken from CONFIG_PATH
when that file exists, otherwise from the first of DefaultConfigPaths found.

# Sections

  - database: DuckDB path, memory limit, query timeout and startup seeding
  - server: operations API listener and train endpoint rate limit
  - logging: zerolog level and format
  - recommend: model, lexical index, source selection and retrain schedule
  - ingest: navigation topic and Watermill router retry settings
  - supervisor: suture failure thresholds and shutdown timeout

# Environment Variables

Only mapped names are read; anything else in the environment is ignored.

	DUCKDB_PATH                  database.path
	DUCKDB_MAX_MEMORY            database.max_memory
	SEED_FILE                    database.seed_file
	SEED_DEMO_USERS              database.seed_demo_users
	HTTP_PORT                    server.port
	LOG_LEVEL                    logging.level
	RECOMMEND_EPOCHS             recommend.epochs
	RECOMMEND_MIN_NAVIGATIONS    recommend.min_navigations_for_personal
	RECOMMEND_CHECK_INTERVAL     recommend.check_interval
	INGEST_RETRY_COUNT           ingest.retry_count

See envMappings in koanf.go for the full table.

# Example YAML

	database:
	  path: /data/smartbuy.duckdb
	  seed_file: /data/catalog.json
	recommend:
	  epochs: 20
	  train_on_startup: true
	logging:
	  level: debug
	  format: console

# Validation

Struct tags are checked by the validation package (ranges, log level,
DuckDB memory size); Validate then checks settings that depend on each
other, such as the demo seeding pair and the ingest retry intervals.

# Thread Safety

The Config struct is immutable after Load() returns and is safe for
concurrent reads.
*/
package config
