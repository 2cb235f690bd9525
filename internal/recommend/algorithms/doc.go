// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

// Package algorithms implements the numerical models behind the ranking
// engine.
//
// The package works purely on dense matrix rows and plain documents; the
// mapping between shop identifiers and rows lives in package recommend.
//
// # Models
//
//   - TwoTower: user and item embeddings concatenated into a small
//     feed-forward scorer, trained with Adam on implicit positives
//   - LexicalIndex: TF-IDF vocabulary with cosine query scoring
//   - RankSimilar: cosine ranking over item embedding rows
//
// # Usage Example
//
//	model, err := algorithms.NewTwoTower(algorithms.DefaultTwoTowerConfig(), numUsers, numItems)
//	if err != nil {
//	    return err
//	}
//	if _, err := model.Fit(ctx, pairs); err != nil {
//	    return err
//	}
//	similar, _ := algorithms.RankSimilar(model.ItemEmbeddings(), row)
//
// # Determinism
//
// All randomness comes from a rand.Rand seeded by TwoTowerConfig.Seed, so
// identical pairs and configuration always produce identical weights.
//
// # Thread Safety
//
// A TwoTower must not be trained concurrently. After Fit returns, Score,
// PredictUser and ItemEmbeddings are read-only and safe for concurrent use.
// A LexicalIndex is immutable after construction.
package algorithms
