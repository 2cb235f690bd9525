// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in errors follow the json tag, then the koanf tag, so the
// same package reports "product_id" for API requests and
// "database.max_memory" for configuration.
//
// Custom tags:
//
//	memsize   DuckDB memory limit ("2GB", "512MiB")
//	loglevel  zerolog level name
//
// Example:
//
//	type navigationRequest struct {
//	    DestinationID int64 `json:"destination_id" validate:"required,gt=0"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondJSON(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
