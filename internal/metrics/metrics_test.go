// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	m, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a prometheus.Metric", o)
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErr   float64
	}{
		{name: "successful select", operation: "SELECT", table: "product_navigations"},
		{name: "failed insert", operation: "INSERT", table: "products", err: errors.New("constraint"), wantErr: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table))
			beforeCount := histogramCount(t, DBQueryDuration.WithLabelValues(tt.operation, tt.table))

			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			after := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table))
			if after-before != tt.wantErr {
				t.Errorf("error counter delta = %f, want %f", after-before, tt.wantErr)
			}
			if got := histogramCount(t, DBQueryDuration.WithLabelValues(tt.operation, tt.table)); got != beforeCount+1 {
				t.Errorf("histogram count = %d, want %d", got, beforeCount+1)
			}
		})
	}
}

func TestRecordTraining(t *testing.T) {
	beforeTrained := testutil.ToFloat64(TrainingRuns.WithLabelValues("trained"))
	beforeFresh := testutil.ToFloat64(TrainingRuns.WithLabelValues("fresh"))

	RecordTraining("fresh", 0, 0)
	RecordTraining("trained", 2*time.Second, 0.42)

	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("trained")) - beforeTrained; got != 1 {
		t.Errorf("trained delta = %f, want 1", got)
	}
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("fresh")) - beforeFresh; got != 1 {
		t.Errorf("fresh delta = %f, want 1", got)
	}
	if got := testutil.ToFloat64(TrainingLoss); got != 0.42 {
		t.Errorf("TrainingLoss = %f, want 0.42", got)
	}
}

func TestRecordSnapshot(t *testing.T) {
	trainedAt := time.Unix(1_700_000_000, 0)
	RecordSnapshot(7, trainedAt, 3, 5, 11)

	if got := testutil.ToFloat64(ModelVersion); got != 7 {
		t.Errorf("ModelVersion = %f, want 7", got)
	}
	if got := testutil.ToFloat64(ModelLastTrained); got != 1_700_000_000 {
		t.Errorf("ModelLastTrained = %f, want 1700000000", got)
	}
	if got := testutil.ToFloat64(IndexedEntities.WithLabelValues("terms")); got != 11 {
		t.Errorf("terms = %f, want 11", got)
	}
}

func TestRecordRankingAndFallback(t *testing.T) {
	before := testutil.ToFloat64(RankingRequests.WithLabelValues("recommendations", "popularity"))
	beforeFallback := testutil.ToFloat64(RankingFallbacks.WithLabelValues("unknown_entity"))

	RecordRanking("recommendations", "popularity", time.Millisecond)
	RecordFallback("unknown_entity")

	if got := testutil.ToFloat64(RankingRequests.WithLabelValues("recommendations", "popularity")) - before; got != 1 {
		t.Errorf("requests delta = %f, want 1", got)
	}
	if got := testutil.ToFloat64(RankingFallbacks.WithLabelValues("unknown_entity")) - beforeFallback; got != 1 {
		t.Errorf("fallback delta = %f, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/model/train", "202"))
	RecordAPIRequest("POST", "/api/v1/model/train", "202", 3*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/model/train", "202")) - before; got != 1 {
		t.Errorf("api requests delta = %f, want 1", got)
	}
}
