// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

/*
Package api serves the SmartBuy operations HTTP API on a Chi router.

# Endpoints

	GET  /healthz                              store ping and model state
	GET  /metrics                              Prometheus exposition
	GET  /api/v1/model                         published snapshot status
	POST /api/v1/model/train?force=true        run a training pass (rate limited)
	POST /api/v1/navigations                   record a product navigation
	GET  /api/v1/recommendations?user_id=&q=   ranked products for a requester
	GET  /api/v1/products/popular              popularity ranking
	GET  /api/v1/products/search?q=...         lexical search ranking
	GET  /api/v1/products/{productID}/similar  embedding neighbours

Ranking endpoints accept the same optional query parameters:

  - q (alias query): search text. On /api/v1/recommendations a non-empty
    value selects lexical search ahead of personal and popular ranking.
  - user_id: /api/v1/recommendations only. Identifies the requester;
    omitted means anonymous.
  - price_min, price_max: inclusive price bounds
  - categories: category ID, repeatable
  - sort: newest, priceLowToHigh, priceHighToLow or popularity

A malformed filter parameter is ignored rather than rejected, and an
unknown sort value keeps the ranking source order.

# Responses

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

Store outages map to 503 SERVICE_UNAVAILABLE so callers can retry.

# Middleware

Applied to every route, outermost first: request ID with logging context,
panic recovery, request metrics keyed by route pattern, and a request
timeout. The train endpoint adds a per-IP httprate limiter.
*/
package api
