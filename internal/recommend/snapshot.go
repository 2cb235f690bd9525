// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/smartbuy/internal/recommend/algorithms"
)

// snapshot is everything one training pass produces. It is published by
// a single pointer swap and never mutated afterwards, so a reader always
// sees an index, model, embedding cache and lexical index from the same pass.
type snapshot struct {
	version   int64
	trainedAt time.Time

	index *IdentifierIndex
	model *algorithms.TwoTower

	// itemEmbeddings is the item table copied out of model, one row per
	// index item row.
	itemEmbeddings [][]float64

	lexical *algorithms.LexicalIndex
}

// validate checks that the index and the embedding cache describe the
// same rows.
func (s *snapshot) validate() error {
	if err := s.index.Validate(); err != nil {
		return err
	}
	if len(s.itemEmbeddings) != s.index.NumItems() {
		return fmt.Errorf("%d item embeddings for %d indexed items", len(s.itemEmbeddings), s.index.NumItems())
	}
	for row, emb := range s.itemEmbeddings {
		if len(emb) != s.model.Dim() {
			return fmt.Errorf("item row %d has width %d, model dimension is %d", row, len(emb), s.model.Dim())
		}
	}
	return nil
}

// freshAt reports whether the snapshot is younger than interval at now.
func (s *snapshot) freshAt(now time.Time, interval time.Duration) bool {
	return s != nil && now.Sub(s.trainedAt) < interval
}

// similarItems returns the products ranked by embedding similarity to
// itemID, with the first ranked entry dropped. Products missing from
// catalog are skipped.
func (s *snapshot) similarItems(itemID int64, catalog map[int64]CatalogItem) ([]int64, error) {
	row, ok := s.index.ItemRow(itemID)
	if !ok {
		return nil, ErrUnknownEntity
	}
	rows, err := algorithms.RankSimilar(s.itemEmbeddings, row)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		id, ok := s.index.ItemID(r)
		if !ok {
			continue
		}
		if _, inCatalog := catalog[id]; inCatalog {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// userScores returns every indexed product with its predicted score for
// userID, in item row order.
func (s *snapshot) userScores(userID int64) ([]int64, []float64, error) {
	row, ok := s.index.UserRow(userID)
	if !ok {
		return nil, nil, ErrUnknownEntity
	}
	scores, err := s.model.PredictUser(row)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]int64, len(scores))
	for r := range scores {
		ids[r], _ = s.index.ItemID(r)
	}
	return ids, scores, nil
}

// search returns lexical matches in descending score order.
func (s *snapshot) search(query string) []int64 {
	matches := s.lexical.Search(query)
	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
