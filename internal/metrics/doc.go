// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto at
package init, so any package may record into them without wiring.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint of the operations API:

	curl http://localhost:8085/metrics

# Available Metrics

Training:
  - recommend_training_runs_total: Train calls (counter)
    Labels: outcome (trained, fresh, empty, failed)
  - recommend_training_duration_seconds: Completed pass duration (histogram)
  - recommend_training_final_loss: Final epoch loss (gauge)
  - recommend_model_version: Published snapshot version (gauge)
  - recommend_indexed_entities: Snapshot rows (gauge)
    Labels: kind (users, items, terms)

Ranking:
  - recommend_requests_total: Served requests (counter)
    Labels: operation, source
  - recommend_request_duration_seconds: Latency (histogram)
  - recommend_fallbacks_total: Degradations to popularity (counter)
  - recommend_malformed_filter_criteria_total: Dropped filter criteria (counter)

Store and ingestion:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures, circuit_breaker_state_transitions_total
  - ingest_navigations_total

API:
  - api_requests_total, api_request_duration_seconds

# Usage Example

	start := time.Now()
	ids, err := engine.GetPopular(ctx, criteria)
	metrics.RecordRanking("popular", "popularity", time.Since(start))
*/
package metrics
