// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/smartbuy/internal/ingest"
	"github.com/tomtom215/smartbuy/internal/validation"
)

const maxNavigationBody = 64 << 10

// NavigationAccepted is the body of a recorded navigation.
type NavigationAccepted struct {
	EventID string `json:"event_id"`
}

// RecordNavigation handles POST /api/v1/navigations. The event is
// published for asynchronous storage; 202 means accepted, not stored.
func (h *Handler) RecordNavigation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var event ingest.NavigationEvent
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNavigationBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&event); err != nil {
		rw.BadRequest("Request body must be a navigation JSON object")
		return
	}

	eventID, err := h.recorder.RecordNavigation(r.Context(), event)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			apiErr := verr.ToAPIError()
			rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		case errors.Is(err, ingest.ErrConsumerNotReady):
			rw.ServiceUnavailable("Navigation ingest is starting, retry later")
		default:
			rw.InternalError("Failed to record navigation", err)
		}
		return
	}

	rw.Accepted(NavigationAccepted{EventID: eventID})
}
