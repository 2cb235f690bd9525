// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status        string  `json:"status"`
	Database      string  `json:"database"`
	StoreBreaker  string  `json:"store_breaker,omitempty"`
	ModelTrained  bool    `json:"model_trained"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health handles GET /healthz. The service is healthy when the store
// answers a ping; an untrained model is reported but not unhealthy,
// since every ranking degrades to popularity without one. An open store
// breaker marks the service degraded with a 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.pingTimeout)
	defer cancel()

	status := HealthStatus{
		Status:        "healthy",
		Database:      "connected",
		ModelTrained:  h.ranker.Status().Trained,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		status.StoreBreaker = h.breaker.State()
		if status.StoreBreaker != "closed" {
			status.Status = "degraded"
		}
	}

	rw := NewResponseWriter(w, r)
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Health check ping failed")
		status.Status = "unhealthy"
		status.Database = "unreachable"
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Database unreachable", status)
		return
	}
	rw.Success(status)
}
