// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestWatermillAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := NewWatermillAdapter(zerolog.New(&buf).Level(zerolog.TraceLevel))

	adapter.Error("handler failed", errors.New("db locked"), watermill.LogFields{"topic": "navigation.recorded"})
	output := buf.String()
	for _, want := range []string{`"level":"error"`, `"error":"db locked"`, `"topic":"navigation.recorded"`, "handler failed"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}

	// Watermill info is demoted to debug, below the default global level.
	buf.Reset()
	adapter.Info("message received", nil)
	if buf.Len() != 0 {
		t.Errorf("watermill info logged at default level: %s", buf.String())
	}
}

func TestWatermillAdapter_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	adapter := NewWatermillAdapter(zerolog.New(&buf)).With(watermill.LogFields{"handler": "navigation-store"})

	adapter.Error("processing failed", errors.New("x"), watermill.LogFields{"uuid": "abc"})

	output := buf.String()
	if !strings.Contains(output, `"handler":"navigation-store"`) || !strings.Contains(output, `"uuid":"abc"`) {
		t.Errorf("expected both fields in output: %s", output)
	}
}
