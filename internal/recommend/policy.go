// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/smartbuy/internal/metrics"
)

const (
	opRecommendations = "recommendations"
	opSimilar         = "similar"
	opSearch          = "search"
	opPopular         = "popular"
)

// GetRecommendations ranks products for the requester.
//
// Source precedence:
//  1. criteria.Query set: lexical search.
//  2. Authenticated requester with enough navigation history: personalized
//     model scores, degrading to popularity for an untrained model or a
//     user missing from the model.
//  3. Otherwise: popularity.
//
// The attribute filter applies on every path; sortKey then overrides the
// source order.
func (e *Engine) GetRecommendations(ctx context.Context, identity Identity, criteria FilterCriteria, sortKey SortKey) ([]int64, error) {
	start := time.Now()
	filter := e.parseFilter(criteria)

	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	var (
		ids    []int64
		source Source
	)
	switch {
	case criteria.Query != "":
		ids, source = e.lexicalRanking(ctx, criteria.Query, filter, catalog), SourceLexical

	case identity.Authenticated && identity.NavigationCount >= e.config.Policy.MinNavigationsForPersonal:
		ids, err = e.personalizedRanking(ctx, identity.UserID, filter, catalog)
		source = SourcePersonalized
		if err != nil {
			e.noteFallback(opRecommendations, err)
			ids, err = e.popularityRanking(ctx, filter, catalog)
			source = SourcePopularity
		}

	default:
		ids, err = e.popularityRanking(ctx, filter, catalog)
		source = SourcePopularity
	}
	if err != nil {
		return nil, err
	}

	if err := e.sortRanking(ctx, ids, sortKey, catalog); err != nil {
		return nil, err
	}

	metrics.RecordRanking(opRecommendations, string(source), time.Since(start))
	return ids, nil
}

// GetSimilar ranks products by embedding similarity to itemID, skipping
// products removed from the catalog since training. An untrained model or
// a product missing from the model degrades to the unfiltered popularity
// ranking.
func (e *Engine) GetSimilar(ctx context.Context, itemID int64) ([]int64, error) {
	start := time.Now()

	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	s := e.ensureFresh(ctx)
	if s != nil {
		ids, err := s.similarItems(itemID, catalog)
		if err == nil {
			metrics.RecordRanking(opSimilar, string(SourceSimilar), time.Since(start))
			return ids, nil
		}
		e.noteFallback(opSimilar, err)
	} else {
		e.noteFallback(opSimilar, ErrModelNotTrained)
	}

	ids, err := e.popularityRanking(ctx, Filter{}, catalog)
	if err != nil {
		return nil, err
	}
	metrics.RecordRanking(opSimilar, string(SourcePopularity), time.Since(start))
	return ids, nil
}

// Search ranks products by lexical similarity to query. An empty query or
// an engine that has never trained yields an empty ranking.
func (e *Engine) Search(ctx context.Context, query string, criteria FilterCriteria, sortKey SortKey) ([]int64, error) {
	start := time.Now()
	if query == "" {
		metrics.RecordRanking(opSearch, string(SourceLexical), time.Since(start))
		return []int64{}, nil
	}

	filter := e.parseFilter(criteria)
	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	ids := e.lexicalRanking(ctx, query, filter, catalog)
	if err := e.sortRanking(ctx, ids, sortKey, catalog); err != nil {
		return nil, err
	}

	metrics.RecordRanking(opSearch, string(SourceLexical), time.Since(start))
	return ids, nil
}

// GetPopular ranks every product passing the filter by descending
// destination navigation count.
func (e *Engine) GetPopular(ctx context.Context, criteria FilterCriteria) ([]int64, error) {
	start := time.Now()
	filter := e.parseFilter(criteria)

	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := e.popularityRanking(ctx, filter, catalog)
	if err != nil {
		return nil, err
	}

	metrics.RecordRanking(opPopular, string(SourcePopularity), time.Since(start))
	return ids, nil
}

// lexicalRanking returns search hits that are still in the catalog and
// pass the filter, in search order.
func (e *Engine) lexicalRanking(ctx context.Context, query string, filter Filter, catalog map[int64]CatalogItem) []int64 {
	s := e.ensureFresh(ctx)
	if s == nil {
		return []int64{}
	}

	hits := s.search(query)
	ids := make([]int64, 0, len(hits))
	for _, id := range hits {
		item, ok := catalog[id]
		if !ok || !filter.Allows(item) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// personalizedRanking orders the products in the model by predicted score
// for userID, keeping those in the catalog that pass the filter.
func (e *Engine) personalizedRanking(ctx context.Context, userID int64, filter Filter, catalog map[int64]CatalogItem) ([]int64, error) {
	s := e.ensureFresh(ctx)
	if s == nil {
		return nil, ErrModelNotTrained
	}

	candidates, scores, err := s.userScores(userID)
	if err != nil {
		return nil, err
	}

	type scored struct {
		id    int64
		score float64
	}
	kept := make([]scored, 0, len(candidates))
	for i, id := range candidates {
		item, ok := catalog[id]
		if !ok || !filter.Allows(item) {
			continue
		}
		kept = append(kept, scored{id: id, score: scores[i]})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	ids := make([]int64, len(kept))
	for i, k := range kept {
		ids[i] = k.id
	}
	return ids, nil
}

// popularityRanking orders every catalog product passing the filter by
// descending destination navigation count, ties by ascending product ID.
func (e *Engine) popularityRanking(ctx context.Context, filter Filter, catalog map[int64]CatalogItem) ([]int64, error) {
	counts, err := e.provider.CountDestinationEventsByItem(ctx)
	if err != nil {
		return nil, fmt.Errorf("count navigations: %w: %w", ErrUpstreamUnavailable, err)
	}

	ids := make([]int64, 0, len(catalog))
	for id, item := range catalog {
		if filter.Allows(item) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := counts[ids[i]], counts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// sortRanking applies the sort override in place.
func (e *Engine) sortRanking(ctx context.Context, ids []int64, key SortKey, catalog map[int64]CatalogItem) error {
	if key == SortNone || len(ids) < 2 {
		return nil
	}

	var counts map[int64]int
	if key.needsCounts() {
		var err error
		counts, err = e.provider.CountDestinationEventsByItem(ctx)
		if err != nil {
			return fmt.Errorf("count navigations: %w: %w", ErrUpstreamUnavailable, err)
		}
	}
	applySort(ids, key, catalog, counts)
	return nil
}

// catalogByID loads the current catalog keyed by product ID.
func (e *Engine) catalogByID(ctx context.Context) (map[int64]CatalogItem, error) {
	items, err := e.provider.ListCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w: %w", ErrUpstreamUnavailable, err)
	}
	catalog := make(map[int64]CatalogItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog, nil
}

// parseFilter parses criteria, recording every dropped criterion.
func (e *Engine) parseFilter(criteria FilterCriteria) Filter {
	filter, err := ParseFilter(criteria)
	if err != nil {
		for _, name := range filter.Dropped() {
			metrics.MalformedFilters.WithLabelValues(name).Inc()
		}
		e.logger.Debug().Err(err).Msg("ignoring malformed filter criteria")
	}
	return filter
}

// noteFallback records a degradation to popularity ranking.
func (e *Engine) noteFallback(operation string, cause error) {
	reason := "error"
	switch {
	case errors.Is(cause, ErrModelNotTrained):
		reason = "not_trained"
	case errors.Is(cause, ErrUnknownEntity):
		reason = "unknown_entity"
	}
	metrics.RecordFallback(reason)
	e.fallbackLog.Do(func() {
		e.logger.Warn().
			Str("operation", operation).
			Str("reason", reason).
			Err(cause).
			Msg("falling back to popularity ranking")
	})
}
