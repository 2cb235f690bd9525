// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/smartbuy/internal/metrics"
	"github.com/tomtom215/smartbuy/internal/recommend/algorithms"
)

// Engine is the ranking engine. It owns the published training snapshot
// and answers ranking requests against it.
//
// Thread Safety:
//   - Ranking methods are safe for concurrent use.
//   - Training passes are serialized; readers never block on them unless
//     they need a fresh snapshot and none has been published yet or the
//     published one is stale.
type Engine struct {
	config   *Config
	provider DataProvider
	logger   zerolog.Logger
	now      func() time.Time

	current atomic.Pointer[snapshot]

	// trainMu serializes training passes and the throttle check.
	trainMu sync.Mutex
	flight  singleflight.Group

	training   atomic.Bool
	trainCount atomic.Int64
	version    atomic.Int64
	lastError  atomic.Pointer[string]

	// fallbackLog samples degradation warnings.
	fallbackLog rate.Sometimes
}

// NewEngine creates a new ranking engine backed by provider.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewEngine(cfg *Config, provider DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	return &Engine{
		config:      cfg.Clone(),
		provider:    provider,
		logger:      logger.With().Str("component", "recommend").Logger(),
		now:         time.Now,
		fallbackLog: rate.Sometimes{First: 1, Interval: time.Minute},
	}, nil
}

// Train runs a training pass and publishes the resulting snapshot.
//
// When force is false and the published snapshot is younger than the
// refresh interval, Train does nothing. When the store holds no
// attributable interactions, Train does nothing and the previous snapshot
// stays published. Concurrent calls are serialized.
func (e *Engine) Train(ctx context.Context, force bool) (TrainOutcome, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	if !force && e.current.Load().freshAt(e.now(), e.config.Training.RefreshInterval) {
		metrics.RecordTraining(string(TrainOutcomeFresh), 0, 0)
		return TrainOutcomeFresh, nil
	}

	e.training.Store(true)
	defer e.training.Store(false)

	start := time.Now()
	outcome, loss, err := e.trainPass(ctx)
	metrics.RecordTraining(string(outcome), time.Since(start), loss)

	if err != nil {
		msg := err.Error()
		e.lastError.Store(&msg)
		e.logger.Error().Err(err).Msg("model training failed")
		return outcome, err
	}
	if outcome == TrainOutcomeEmpty {
		e.logger.Warn().Msg("no attributable interactions, keeping previous snapshot")
		return outcome, nil
	}

	e.lastError.Store(nil)
	s := e.current.Load()
	e.logger.Info().
		Int64("version", s.version).
		Int("users", s.index.NumUsers()).
		Int("items", s.index.NumItems()).
		Int("terms", s.lexical.NumTerms()).
		Float64("loss", loss).
		Dur("duration", time.Since(start)).
		Msg("model training complete")

	return outcome, nil
}

// trainPass loads data, fits the model and the lexical index, and
// publishes the snapshot. It must be called with trainMu held.
func (e *Engine) trainPass(ctx context.Context) (TrainOutcome, float64, error) {
	interactions, err := e.loadInteractions(ctx)
	if err != nil {
		return TrainOutcomeFailed, 0, err
	}

	index := BuildIdentifierIndex(interactions)
	if index.Empty() {
		return TrainOutcomeEmpty, 0, nil
	}
	pairs := index.Pairs(interactions)

	e.logger.Info().
		Int("interactions", len(interactions)).
		Int("pairs", len(pairs)).
		Int("users", index.NumUsers()).
		Int("items", index.NumItems()).
		Msg("loaded training data")

	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return TrainOutcomeFailed, 0, err
	}

	model, err := algorithms.NewTwoTower(e.config.twoTowerConfig(), index.NumUsers(), index.NumItems())
	if err != nil {
		return TrainOutcomeFailed, 0, fmt.Errorf("create model: %w", err)
	}
	loss, err := model.Fit(ctx, pairs)
	if err != nil {
		return TrainOutcomeFailed, 0, fmt.Errorf("fit model: %w", err)
	}

	docs := make([]algorithms.Document, len(catalog))
	for i, item := range catalog {
		docs[i] = algorithms.Document{ID: item.ID, Text: item.SearchText()}
	}

	s := &snapshot{
		trainedAt:      e.now(),
		index:          index,
		model:          model,
		itemEmbeddings: model.ItemEmbeddings(),
		lexical:        algorithms.NewLexicalIndex(e.config.lexicalConfig(), docs),
	}
	if err := s.validate(); err != nil {
		return TrainOutcomeFailed, loss, fmt.Errorf("inconsistent snapshot: %w", err)
	}
	s.version = e.version.Add(1)
	e.current.Store(s)
	e.trainCount.Add(1)
	metrics.RecordSnapshot(s.version, s.trainedAt, index.NumUsers(), index.NumItems(), s.lexical.NumTerms())

	return TrainOutcomeTrained, loss, nil
}

func (e *Engine) loadInteractions(ctx context.Context) ([]Interaction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Training.LoadTimeout)
	defer cancel()

	interactions, err := e.provider.ListInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w: %w", ErrUpstreamUnavailable, err)
	}
	return interactions, nil
}

func (e *Engine) loadCatalog(ctx context.Context) ([]CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Training.LoadTimeout)
	defer cancel()

	items, err := e.provider.ListCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w: %w", ErrUpstreamUnavailable, err)
	}
	return items, nil
}

// ensureFresh returns the snapshot to serve from, retraining first when
// the published one is stale or absent. Concurrent stale callers share a
// single retrain and all wait for it. A failed retrain leaves the previous
// snapshot, which may be nil, in place.
func (e *Engine) ensureFresh(ctx context.Context) *snapshot {
	if s := e.current.Load(); s.freshAt(e.now(), e.config.Training.RefreshInterval) {
		return s
	}

	// Training outlives the request that happened to trigger it.
	trainCtx := context.WithoutCancel(ctx)
	_, err, shared := e.flight.Do("train", func() (any, error) {
		return e.Train(trainCtx, false)
	})
	if err != nil {
		e.logger.Warn().Err(err).Bool("shared", shared).Msg("lazy retrain failed, serving previous snapshot")
	}

	return e.current.Load()
}

// TrainingCount returns the number of completed training passes.
func (e *Engine) TrainingCount() int64 {
	return e.trainCount.Load()
}

// Status returns a summary of the published snapshot.
func (e *Engine) Status() Status {
	st := Status{
		Training:      e.training.Load(),
		TrainingCount: e.trainCount.Load(),
	}
	if msg := e.lastError.Load(); msg != nil {
		st.LastError = *msg
	}

	s := e.current.Load()
	if s == nil {
		return st
	}
	st.Trained = true
	st.LastTrainedAt = s.trainedAt
	st.ModelVersion = s.version
	st.Users = s.index.NumUsers()
	st.Items = s.index.NumItems()
	st.Terms = s.lexical.NumTerms()
	st.IndexedProducts = s.lexical.NumDocuments()
	return st
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// ResolveIdentity builds the requester identity for userID, where 0 means
// an anonymous visitor.
func (e *Engine) ResolveIdentity(ctx context.Context, userID int64) (Identity, error) {
	if userID == 0 {
		return AnonymousIdentity(), nil
	}
	count, err := e.provider.CountUserNavigations(ctx, userID)
	if err != nil {
		return Identity{Authenticated: true, UserID: userID}, fmt.Errorf("count navigations: %w: %w", ErrUpstreamUnavailable, err)
	}
	return Identity{Authenticated: true, UserID: userID, NavigationCount: count}, nil
}

// IsUpstreamError reports whether err came from the data provider.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
