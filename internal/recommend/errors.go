// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import "errors"

var (
	// ErrModelNotTrained means no snapshot has been published yet.
	ErrModelNotTrained = errors.New("model not trained")

	// ErrUnknownEntity means a user or product is absent from the
	// published identifier index.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrMalformedFilter means a filter criterion failed to parse and
	// was dropped.
	ErrMalformedFilter = errors.New("malformed filter criterion")

	// ErrUpstreamUnavailable means the interaction or catalog store could
	// not supply data.
	ErrUpstreamUnavailable = errors.New("upstream data unavailable")
)
