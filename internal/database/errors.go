// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package database

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownProduct means a navigation named a destination product
	// that is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrInvalidFixture means a seed file could not be applied.
	ErrInvalidFixture = errors.New("invalid seed fixture")
)

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, logger zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly aborts a transaction whose error is already being returned.
func rollbackQuietly(tx interface{ Rollback() error }) {
	_ = tx.Rollback()
}
