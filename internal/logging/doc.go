// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

// Package logging provides centralized zerolog-based structured logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Error().Err(err).Msg("training failed")
//
//	// Request-scoped
//	logging.Ctx(ctx).Info().Int64("product_id", id).Msg("navigation recorded")
//
// # Adapters
//
// Two libraries in the service expect their own logger interfaces:
//
//   - The suture supervisor takes an *slog.Logger: use NewSlogLogger.
//   - Watermill routers and pubsubs take a watermill.LoggerAdapter: use
//     NewWatermillAdapter.
//
// Both write through the same zerolog output as the rest of the service.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
