// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/smartbuy/internal/config"
)

// RouterConfig holds router settings.
type RouterConfig struct {
	// RequestTimeout bounds every request except training.
	RequestTimeout time.Duration

	TrainRateLimit  int
	TrainRateWindow time.Duration
}

// RouterConfigFrom converts the server section of the service config.
func RouterConfigFrom(cfg *config.ServerConfig) RouterConfig {
	return RouterConfig{
		RequestTimeout:  cfg.Timeout,
		TrainRateLimit:  cfg.TrainRateLimit,
		TrainRateWindow: cfg.TrainRateWindow,
	}
}

// NewRouter builds the Chi router for the operations API.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging(h.logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(PrometheusMetrics)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Training can outlast the request timeout.
		r.With(TrainRateLimit(cfg.TrainRateLimit, cfg.TrainRateWindow)).
			Post("/model/train", h.TrainModel)

		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
			}

			r.Get("/model", h.ModelStatus)
			r.Post("/navigations", h.RecordNavigation)
			r.Get("/recommendations", h.Recommendations)

			r.Route("/products", func(r chi.Router) {
				r.Get("/popular", h.Popular)
				r.Get("/search", h.Search)
				r.Get("/{productID}/similar", h.Similar)
			})
		})
	})

	return r
}
