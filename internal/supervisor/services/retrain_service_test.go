// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/smartbuy/internal/recommend"
)

type fakeTrainer struct {
	mu     sync.Mutex
	forced []bool
	err    error
}

func (f *fakeTrainer) Train(_ context.Context, force bool) (recommend.TrainOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, force)
	if f.err != nil {
		return recommend.TrainOutcomeFailed, f.err
	}
	return recommend.TrainOutcomeTrained, nil
}

func (f *fakeTrainer) calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forced...)
}

func runFor(t *testing.T, svc *RetrainService, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Serve() = %v, want context.DeadlineExceeded", err)
	}
}

func TestRetrainService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       RetrainServiceConfig
		err       error
		runFor    time.Duration
		wantCalls int
	}{
		{"startup only", RetrainServiceConfig{TrainOnStartup: true, CheckInterval: time.Hour}, nil, 50 * time.Millisecond, 1},
		{"no startup", RetrainServiceConfig{CheckInterval: time.Hour}, nil, 50 * time.Millisecond, 0},
		{"ticks", RetrainServiceConfig{CheckInterval: 20 * time.Millisecond}, nil, 110 * time.Millisecond, 3},
		{"failures keep running", RetrainServiceConfig{TrainOnStartup: true, CheckInterval: 20 * time.Millisecond}, errors.New("store down"), 110 * time.Millisecond, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			trainer := &fakeTrainer{err: tt.err}
			runFor(t, NewRetrainService(trainer, tt.cfg, zerolog.Nop()), tt.runFor)

			calls := trainer.calls()
			if len(calls) < tt.wantCalls {
				t.Errorf("Train calls = %d, want at least %d", len(calls), tt.wantCalls)
			}
			if tt.wantCalls == 0 && len(calls) != 0 {
				t.Errorf("Train calls = %d, want none", len(calls))
			}
			for _, forced := range calls {
				if forced {
					t.Error("scheduled training must not force a retrain")
				}
			}
		})
	}
}

func TestNewRetrainService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewRetrainService(&fakeTrainer{}, RetrainServiceConfig{}, zerolog.Nop())
	if svc.config.CheckInterval != time.Hour {
		t.Errorf("CheckInterval = %v, want 1h", svc.config.CheckInterval)
	}
	if svc.String() != "retrain-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

type fakeConsumer struct {
	err error
}

func (f fakeConsumer) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestIngestService(t *testing.T) {
	t.Parallel()

	routerErr := errors.New("router closed")
	if err := NewIngestService(fakeConsumer{err: routerErr}).Serve(context.Background()); !errors.Is(err, routerErr) {
		t.Errorf("Serve() = %v, want router error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewIngestService(fakeConsumer{}).Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() after cancel = %v, want context.Canceled", err)
	}
}
