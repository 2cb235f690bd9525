// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/smartbuy/internal/recommend"
)

// RankingResponse is the body of every ranking endpoint.
type RankingResponse struct {
	ProductIDs []int64             `json:"product_ids"`
	Count      int                 `json:"count"`
	Identity   *recommend.Identity `json:"identity,omitempty"`
}

func rankingResponse(ids []int64) RankingResponse {
	if ids == nil {
		ids = []int64{}
	}
	return RankingResponse{ProductIDs: ids, Count: len(ids)}
}

// searchQuery reads the search text from q, falling back to query.
func searchQuery(q url.Values) string {
	if v := q.Get("q"); v != "" {
		return v
	}
	return q.Get("query")
}

// filterCriteria reads the shared filter parameters. Values pass through
// unparsed: the engine drops malformed criteria itself.
func filterCriteria(q url.Values) recommend.FilterCriteria {
	return recommend.FilterCriteria{
		Query:      searchQuery(q),
		PriceMin:   q.Get("price_min"),
		PriceMax:   q.Get("price_max"),
		Categories: q["categories"],
	}
}

func (h *Handler) sortKey(q url.Values) recommend.SortKey {
	raw := q.Get("sort")
	key, ok := recommend.ParseSortKey(raw)
	if !ok {
		h.logger.Debug().Str("sort", raw).Msg("Ignoring unknown sort key")
	}
	return key
}

// rankingError writes the response for a failed ranking call.
func (h *Handler) rankingError(rw *ResponseWriter, err error) {
	if recommend.IsUpstreamError(err) {
		h.logger.Warn().Err(err).Msg("Ranking failed: store unavailable")
		rw.ServiceUnavailable("Catalog store unavailable")
		return
	}
	rw.InternalError("Ranking failed", err)
}

// Recommendations handles GET /api/v1/recommendations. user_id selects an
// authenticated requester; without it the requester is anonymous. A
// non-empty q (or query) switches the ranking to lexical search.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	var userID int64
	if raw := q.Get("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			rw.BadRequest("user_id must be a positive integer")
			return
		}
		userID = parsed
	}

	identity, err := h.ranker.ResolveIdentity(r.Context(), userID)
	if err != nil {
		h.rankingError(rw, err)
		return
	}

	ids, err := h.ranker.GetRecommendations(r.Context(), identity, filterCriteria(q), h.sortKey(q))
	if err != nil {
		h.rankingError(rw, err)
		return
	}

	resp := rankingResponse(ids)
	resp.Identity = &identity
	rw.Success(resp)
}

// Popular handles GET /api/v1/products/popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ids, err := h.ranker.GetPopular(r.Context(), filterCriteria(r.URL.Query()))
	if err != nil {
		h.rankingError(rw, err)
		return
	}
	rw.Success(rankingResponse(ids))
}

// Search handles GET /api/v1/products/search?q= (or ?query=).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	ids, err := h.ranker.Search(r.Context(), searchQuery(q), filterCriteria(q), h.sortKey(q))
	if err != nil {
		h.rankingError(rw, err)
		return
	}
	rw.Success(rankingResponse(ids))
}

// Similar handles GET /api/v1/products/{productID}/similar.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		rw.BadRequest("productID must be an integer")
		return
	}

	ids, err := h.ranker.GetSimilar(r.Context(), productID)
	if err != nil {
		h.rankingError(rw, err)
		return
	}
	rw.Success(rankingResponse(ids))
}
