// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/ingest"
	"github.com/tomtom215/smartbuy/internal/recommend"
)

// Ranker is the ranking engine surface used by the handlers.
// Satisfied by *recommend.Engine.
type Ranker interface {
	Status() recommend.Status
	Train(ctx context.Context, force bool) (recommend.TrainOutcome, error)
	ResolveIdentity(ctx context.Context, userID int64) (recommend.Identity, error)
	GetRecommendations(ctx context.Context, identity recommend.Identity, criteria recommend.FilterCriteria, sortKey recommend.SortKey) ([]int64, error)
	GetSimilar(ctx context.Context, itemID int64) ([]int64, error)
	Search(ctx context.Context, query string, criteria recommend.FilterCriteria, sortKey recommend.SortKey) ([]int64, error)
	GetPopular(ctx context.Context, criteria recommend.FilterCriteria) ([]int64, error)
}

// NavigationRecorder publishes navigation events.
// Satisfied by *ingest.Publisher.
type NavigationRecorder interface {
	RecordNavigation(ctx context.Context, event ingest.NavigationEvent) (string, error)
}

// Pinger checks store connectivity.
// Satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports a circuit breaker state: closed, half-open or open.
// Satisfied by *database.BreakerProvider.
type BreakerStater interface {
	State() string
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	ranker      Ranker
	recorder    NavigationRecorder
	store       Pinger
	breaker     BreakerStater
	logger      zerolog.Logger
	startTime   time.Time
	pingTimeout time.Duration
}

// NewHandler creates the API handler set.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewHandler(ranker Ranker, recorder NavigationRecorder, store Pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		ranker:      ranker,
		recorder:    recorder,
		store:       store,
		logger:      logger.With().Str("component", "api").Logger(),
		startTime:   time.Now(),
		pingTimeout: 2 * time.Second,
	}
}

// WithBreaker makes /healthz report the state of the breaker guarding
// ranking store reads.
func (h *Handler) WithBreaker(b BreakerStater) *Handler {
	h.breaker = b
	return h
}
