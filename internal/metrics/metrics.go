// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ranking engine and its supporting layers:
// - DuckDB store queries
// - Model training passes and the published snapshot
// - Ranking requests, sources and fallbacks
// - Circuit breaker around the store
// - Navigation ingestion
// - Operations API

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Training attempts by outcome",
		},
		[]string{"outcome"}, // trained, fresh, empty, failed
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of completed training passes",
			Buckets: []float64{.05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	TrainingLoss = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_final_loss",
			Help: "Mean binary cross-entropy of the final epoch of the last training pass",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the currently published snapshot",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_last_trained_timestamp_seconds",
			Help: "Unix time of the last successful training pass",
		},
	)

	IndexedEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_indexed_entities",
			Help: "Number of rows in the published snapshot",
		},
		[]string{"kind"}, // users, items, terms
	)

	// Ranking Metrics
	RankingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Ranking requests by operation and the source that served them",
		},
		[]string{"operation", "source"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Ranking request latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"operation"},
	)

	RankingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallbacks_total",
			Help: "Requests degraded to popularity ranking",
		},
		[]string{"reason"}, // not_trained, unknown_entity
	)

	MalformedFilters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_malformed_filter_criteria_total",
			Help: "Filter criteria dropped because they failed to parse",
		},
		[]string{"criterion"}, // price_min, price_max, categories
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Ingestion Metrics
	NavigationsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_navigations_total",
			Help: "Navigation events handled by the ingest pipeline",
		},
		[]string{"result"}, // published, stored, rejected, failed, poisoned
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of operations API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Operations API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordTraining records the outcome of one call to Train.
// Duration and loss are only observed for completed passes.
func RecordTraining(outcome string, duration time.Duration, loss float64) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	if outcome != "trained" {
		return
	}
	TrainingDuration.Observe(duration.Seconds())
	TrainingLoss.Set(loss)
}

// RecordSnapshot publishes the shape of a newly published snapshot.
func RecordSnapshot(version int64, trainedAt time.Time, users, items, terms int) {
	ModelVersion.Set(float64(version))
	ModelLastTrained.Set(float64(trainedAt.Unix()))
	IndexedEntities.WithLabelValues("users").Set(float64(users))
	IndexedEntities.WithLabelValues("items").Set(float64(items))
	IndexedEntities.WithLabelValues("terms").Set(float64(terms))
}

// RecordRanking records a served ranking request.
func RecordRanking(operation, source string, duration time.Duration) {
	RankingRequests.WithLabelValues(operation, source).Inc()
	RankingDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback records a request degraded to popularity ranking.
func RecordFallback(reason string) {
	RankingFallbacks.WithLabelValues(reason).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
