// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/smartbuy/internal/database"
	"github.com/tomtom215/smartbuy/internal/validation"
)

// ErrInvalidEvent wraps validation and decoding failures of a navigation event.
var ErrInvalidEvent = errors.New("invalid navigation event")

// NavigationEvent is the message payload for one product page view.
type NavigationEvent struct {
	// EventID identifies the event. Generated when empty.
	EventID string `json:"event_id"`

	// UserID is the viewing user. Nil for an anonymous visitor.
	UserID *int64 `json:"user_id,omitempty" validate:"omitempty,gt=0"`

	// SourceProductID is the product page the user came from.
	SourceProductID *int64 `json:"source_product_id,omitempty" validate:"omitempty,gt=0"`

	// SearchQuery is the query that led to the product.
	SearchQuery *string `json:"search_query,omitempty" validate:"omitempty,max=500"`

	DestinationProductID int64 `json:"destination_product_id" validate:"required,gt=0"`

	// CreatedAt defaults to the publish time.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the event fields.
func (e *NavigationEvent) Validate() error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, verr)
	}
	return nil
}

// normalize fills the generated fields and drops a blank search query.
func (e *NavigationEvent) normalize(now time.Time) {
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if e.SearchQuery != nil && strings.TrimSpace(*e.SearchQuery) == "" {
		e.SearchQuery = nil
	}
}

// Navigation converts the event to a store row.
func (e *NavigationEvent) Navigation() database.Navigation {
	return database.Navigation{
		UserID:               e.UserID,
		SourceProductID:      e.SourceProductID,
		SearchQuery:          e.SearchQuery,
		DestinationProductID: e.DestinationProductID,
		CreatedAt:            e.CreatedAt,
	}
}

func encodeEvent(e *NavigationEvent) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode navigation event: %w", err)
	}
	return data, nil
}

func decodeEvent(data []byte) (*NavigationEvent, error) {
	var e NavigationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
