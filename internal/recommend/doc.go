// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

// Package recommend implements the product ranking engine for the shop.
//
// # Architecture
//
// Every ranking is an ordered list of product IDs produced by one of three
// sources and then narrowed by an attribute filter:
//
//   - Lexical: TF-IDF search over product name and description
//   - Personalized: two-tower embedding model scores for a known user
//   - Popularity: destination navigation counts
//
// A fourth operation, GetSimilar, ranks products by cosine similarity of
// their learned item embeddings.
//
// # Source Selection
//
// GetRecommendations picks its source in this order:
//
//   - A search query selects the lexical source
//   - An authenticated user with enough navigation history selects the
//     personalized source
//   - Everyone else gets popularity
//
// The personalized source degrades to popularity when the model is not
// trained or the user is missing from it.
//
// # Training
//
// A training pass loads every navigation and every product through a
// DataProvider, fits the model on (user, product) pairs with implicit
// label 1, builds the lexical index and publishes all of it as one
// immutable snapshot. Passes are serialized and throttled by
// Config.Training.RefreshInterval unless forced. Requests that find the
// snapshot stale trigger one shared retrain and wait for it.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, provider, logger)
//	if err != nil {
//	    return err
//	}
//
//	ids, err := engine.GetRecommendations(ctx, identity,
//	    recommend.FilterCriteria{PriceMax: "50"}, recommend.SortNewest)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Readers load the published
// snapshot through an atomic pointer and never observe a partially
// trained model.
package recommend
