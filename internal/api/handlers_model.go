// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/smartbuy/internal/recommend"
)

// TrainResponse is the body of a training request.
type TrainResponse struct {
	Outcome recommend.TrainOutcome `json:"outcome"`
	Status  recommend.Status       `json:"status"`
}

// ModelStatus handles GET /api/v1/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.ranker.Status())
}

// TrainModel handles POST /api/v1/model/train. With force=true the pass
// runs even when the published snapshot is still fresh.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			rw.BadRequest("force must be a boolean")
			return
		}
		force = parsed
	}

	outcome, err := h.ranker.Train(r.Context(), force)
	if err != nil {
		if recommend.IsUpstreamError(err) {
			h.logger.Warn().Err(err).Msg("Training failed: store unavailable")
			rw.ServiceUnavailable("Interaction store unavailable, training aborted")
			return
		}
		rw.InternalError("Training failed", err)
		return
	}

	h.logger.Info().Str("outcome", string(outcome)).Bool("force", force).Msg("Training requested")
	rw.Success(TrainResponse{Outcome: outcome, Status: h.ranker.Status()})
}
