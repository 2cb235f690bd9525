// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type navigationRequest struct {
	UserID        *int64 `json:"user_id" validate:"omitempty,gt=0"`
	SourceID      *int64 `json:"source_id" validate:"omitempty,gt=0"`
	SearchQuery   string `json:"search_query" validate:"max=200"`
	DestinationID int64  `json:"destination_id" validate:"required,gt=0"`
}

type storageSettings struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required,memsize"`
	Level     string `koanf:"level" validate:"loglevel"`
	Format    string `koanf:"format" validate:"oneof=json console"`
	Threads   int    `koanf:"threads" validate:"gte=0,lte=256"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	user := int64(3)
	tests := []struct {
		name  string
		input interface{}
	}{
		{"minimal navigation", &navigationRequest{DestinationID: 7}},
		{"full navigation", &navigationRequest{UserID: &user, SourceID: &user, SearchQuery: "shoes", DestinationID: 7}},
		{"storage", &storageSettings{Path: ":memory:", MaxMemory: "2GB", Level: "info", Format: "json", Threads: 4}},
		{"binary units", &storageSettings{Path: "x.duckdb", MaxMemory: "512 MiB", Level: "WARN", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	zero := int64(0)
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing destination",
			input:     &navigationRequest{},
			wantField: "destination_id",
			wantTag:   "required",
			wantMsg:   "destination_id is required",
		},
		{
			name:      "non-positive user",
			input:     &navigationRequest{UserID: &zero, DestinationID: 1},
			wantField: "user_id",
			wantTag:   "gt",
			wantMsg:   "user_id must be greater than 0",
		},
		{
			name:      "long query",
			input:     &navigationRequest{SearchQuery: strings.Repeat("a", 201), DestinationID: 1},
			wantField: "search_query",
			wantTag:   "max",
			wantMsg:   "search_query must be at most 200 characters",
		},
		{
			name:      "bad memory size",
			input:     &storageSettings{Path: "x", MaxMemory: "lots", Level: "info", Format: "json"},
			wantField: "max_memory",
			wantTag:   "memsize",
			wantMsg:   "max_memory must be a memory size such as 2GB or 512MiB",
		},
		{
			name:      "bad log level",
			input:     &storageSettings{Path: "x", MaxMemory: "1GB", Level: "loud", Format: "json"},
			wantField: "level",
			wantTag:   "loglevel",
			wantMsg:   "level must be a valid log level",
		},
		{
			name:      "bad format",
			input:     &storageSettings{Path: "x", MaxMemory: "1GB", Level: "info", Format: "xml"},
			wantField: "format",
			wantTag:   "oneof",
			wantMsg:   "format must be one of: json console",
		},
		{
			name:      "too many threads",
			input:     &storageSettings{Path: "x", MaxMemory: "1GB", Level: "info", Format: "json", Threads: 1000},
			wantField: "threads",
			wantTag:   "lte",
			wantMsg:   "threads must be less than or equal to 256",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

type outer struct {
	Database storageSettings `koanf:"database"`
}

func TestValidateStruct_NestedPath(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&outer{Database: storageSettings{MaxMemory: "1GB", Level: "info", Format: "json"}})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if got := verr.Errors()[0].Field(); got != "database.path" {
		t.Errorf("Field() = %q, want database.path", got)
	}
	if !strings.Contains(verr.Error(), "database.path is required") {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		apiErr := ValidateStruct(&navigationRequest{}).ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "destination_id" {
			t.Errorf("Details[field] = %v", apiErr.Details["field"])
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()
		apiErr := ValidateStruct(&storageSettings{MaxMemory: "?", Level: "info", Format: "json"}).ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "path is required") || !strings.Contains(apiErr.Message, "max_memory") {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil {
		t.Fatal("expected error for non-struct input")
	}
	if verr.Errors()[0].Field() != "unknown" {
		t.Errorf("Field() = %q, want unknown", verr.Errors()[0].Field())
	}
}
