// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/smartbuy/internal/metrics"
	"github.com/tomtom215/smartbuy/internal/recommend"
)

// BreakerConfig tunes the circuit breaker around the ranking store.
type BreakerConfig struct {
	// Name labels the breaker in metrics and logs.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MinRequests and FailureRatio decide when the breaker opens.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig returns the production breaker settings:
// opens after a 60% failure rate over at least 10 requests, probes after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "ranking-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerProvider wraps a recommend.DataProvider with a circuit breaker.
// While open, calls fail with gobreaker.ErrOpenState without reaching the
// store.
//
// Canceled requests are not counted as store failures.
type BreakerProvider struct {
	provider recommend.DataProvider
	cb       *gobreaker.CircuitBreaker[any]
	name     string
	logger   zerolog.Logger
}

// Ensure BreakerProvider implements recommend.DataProvider
var _ recommend.DataProvider = (*BreakerProvider)(nil)

// NewBreakerProvider wraps provider with a circuit breaker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewBreakerProvider(provider recommend.DataProvider, cfg BreakerConfig, logger zerolog.Logger) *BreakerProvider {
	logger = logger.With().Str("component", "circuit_breaker").Str("breaker", cfg.Name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio

			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerProvider{
		provider: provider,
		cb:       cb,
		name:     cfg.Name,
		logger:   logger,
	}
}

// State returns the current breaker state name.
func (b *BreakerProvider) State() string {
	return stateToString(b.cb.State())
}

// execute runs fn under the breaker and records the result.
func (b *BreakerProvider) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Debug().Err(err).Msg("Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// ListInteractions calls the wrapped provider with circuit breaker protection.
func (b *BreakerProvider) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	return castResult[[]recommend.Interaction](b.execute(func() (any, error) {
		return b.provider.ListInteractions(ctx)
	}))
}

// ListCatalogItems calls the wrapped provider with circuit breaker protection.
func (b *BreakerProvider) ListCatalogItems(ctx context.Context) ([]recommend.CatalogItem, error) {
	return castResult[[]recommend.CatalogItem](b.execute(func() (any, error) {
		return b.provider.ListCatalogItems(ctx)
	}))
}

// CountDestinationEventsByItem calls the wrapped provider with circuit breaker protection.
func (b *BreakerProvider) CountDestinationEventsByItem(ctx context.Context) (map[int64]int, error) {
	return castResult[map[int64]int](b.execute(func() (any, error) {
		return b.provider.CountDestinationEventsByItem(ctx)
	}))
}

// CountUserNavigations calls the wrapped provider with circuit breaker protection.
func (b *BreakerProvider) CountUserNavigations(ctx context.Context, userID int64) (int, error) {
	return castResult[int](b.execute(func() (any, error) {
		return b.provider.CountUserNavigations(ctx, userID)
	}))
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
