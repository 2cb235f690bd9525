// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"context"
	"time"
)

// Interaction is one recorded navigation to a product page.
type Interaction struct {
	// UserID is the navigating user, or 0 for an anonymous visitor.
	UserID int64 `json:"user_id"`

	// ItemID is the destination product.
	ItemID int64 `json:"item_id"`

	// CreatedAt is when the navigation happened.
	CreatedAt time.Time `json:"created_at"`

	// SourceItemID is the product page the user came from, if any.
	SourceItemID *int64 `json:"source_item_id,omitempty"`

	// SearchQuery is the query that led to the product, if any.
	SearchQuery *string `json:"search_query,omitempty"`
}

// Anonymous reports whether the navigation has no attributable user.
func (i Interaction) Anonymous() bool {
	return i.UserID == 0
}

// CatalogItem is a product as seen by the ranking engine.
type CatalogItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"` // empty when the product has none
	Price       float64   `json:"price"`
	CategoryIDs []int64   `json:"category_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchText is the text indexed for lexical search.
func (c CatalogItem) SearchText() string {
	return c.Name + " " + c.Description
}

// Identity describes the requester of a ranking.
type Identity struct {
	Authenticated   bool  `json:"authenticated"`
	UserID          int64 `json:"user_id"`
	NavigationCount int   `json:"navigation_count"`
}

// AnonymousIdentity is the identity of an unauthenticated requester.
func AnonymousIdentity() Identity {
	return Identity{}
}

// Source names the ranking source that produced a result.
type Source string

const (
	SourceLexical      Source = "lexical"
	SourcePersonalized Source = "personalized"
	SourcePopularity   Source = "popularity"
	SourceSimilar      Source = "similar"
)

// TrainOutcome describes what a call to Train did.
type TrainOutcome string

const (
	// TrainOutcomeTrained means a new snapshot was published.
	TrainOutcomeTrained TrainOutcome = "trained"
	// TrainOutcomeFresh means the published snapshot was young enough to keep.
	TrainOutcomeFresh TrainOutcome = "fresh"
	// TrainOutcomeEmpty means there were no attributable interactions.
	TrainOutcomeEmpty TrainOutcome = "empty"
	// TrainOutcomeFailed means the pass aborted and nothing was published.
	TrainOutcomeFailed TrainOutcome = "failed"
)

// Status summarizes the published snapshot.
type Status struct {
	// Trained is true once any snapshot has been published.
	Trained bool `json:"trained"`

	// Training is true while a training pass is running.
	Training bool `json:"training"`

	// LastTrainedAt is when the published snapshot was trained.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// ModelVersion increments with every published snapshot.
	ModelVersion int64 `json:"model_version"`

	// Users, Items and Terms are the row counts of the snapshot.
	Users int `json:"users"`
	Items int `json:"items"`
	Terms int `json:"terms"`

	// IndexedProducts is the number of products in the lexical index.
	IndexedProducts int `json:"indexed_products"`

	// TrainingCount is the number of completed training passes.
	TrainingCount int64 `json:"training_count"`

	// LastError is the error of the most recent failed pass, if any.
	LastError string `json:"last_error,omitempty"`
}

// DataProvider supplies navigation history and catalog records.
// This interface allows integration with the database package without
// circular imports.
type DataProvider interface {
	// ListInteractions returns every recorded navigation.
	ListInteractions(ctx context.Context) ([]Interaction, error)

	// ListCatalogItems returns every product, ordered by ID.
	ListCatalogItems(ctx context.Context) ([]CatalogItem, error)

	// CountDestinationEventsByItem returns navigation counts keyed by
	// destination product. Products never navigated to may be absent.
	CountDestinationEventsByItem(ctx context.Context) (map[int64]int, error)

	// CountUserNavigations returns the number of navigations by one user.
	CountUserNavigations(ctx context.Context, userID int64) (int, error)
}
