// SmartBuy - Product Recommendation and Search Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/smartbuy

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeProvider implements DataProvider for testing.
type fakeProvider struct {
	mu           sync.Mutex
	interactions []Interaction
	items        []CatalogItem

	interactionsErr error
	itemsErr        error
	countsErr       error

	listInteractionsCalls atomic.Int32
}

func (f *fakeProvider) ListInteractions(ctx context.Context) ([]Interaction, error) {
	f.listInteractionsCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.interactionsErr != nil {
		return nil, f.interactionsErr
	}
	return append([]Interaction(nil), f.interactions...), nil
}

func (f *fakeProvider) ListCatalogItems(ctx context.Context) ([]CatalogItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	items := append([]CatalogItem(nil), f.items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeProvider) CountDestinationEventsByItem(ctx context.Context) (map[int64]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	counts := make(map[int64]int)
	for _, in := range f.interactions {
		counts[in.ItemID]++
	}
	return counts, nil
}

func (f *fakeProvider) CountUserNavigations(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countsErr != nil {
		return 0, f.countsErr
	}
	n := 0
	for _, in := range f.interactions {
		if in.UserID == userID {
			n++
		}
	}
	return n, nil
}

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// testConfig returns a small, fast configuration.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Model.EmbeddingDim = 4
	cfg.Model.Hidden1 = 8
	cfg.Model.Hidden2 = 4
	cfg.Model.Epochs = 2
	cfg.Model.BatchSize = 4
	return cfg
}

func newTestEngine(t *testing.T, provider *fakeProvider) *Engine {
	t.Helper()
	engine, err := NewEngine(testConfig(), provider, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func nav(user, item int64) Interaction {
	return Interaction{UserID: user, ItemID: item, CreatedAt: baseTime}
}

func product(id int64, name string, price float64, categories ...int64) CatalogItem {
	return CatalogItem{
		ID:          id,
		Name:        name,
		Price:       price,
		CategoryIDs: categories,
		CreatedAt:   baseTime.Add(time.Duration(id) * time.Hour),
	}
}

// --- Test: NewEngine ---

func TestNewEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Config
		provider DataProvider
		wantErr  bool
	}{
		{
			name:     "nil config uses defaults",
			cfg:      nil,
			provider: &fakeProvider{},
		},
		{
			name:     "valid default config",
			cfg:      DefaultConfig(),
			provider: &fakeProvider{},
		},
		{
			name: "invalid config returns error",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Model.Epochs = 0
				return c
			}(),
			provider: &fakeProvider{},
			wantErr:  true,
		},
		{
			name:     "nil provider returns error",
			cfg:      DefaultConfig(),
			provider: nil,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.cfg, tt.provider, testLogger())

			if tt.wantErr {
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEngine() error = %v, want nil", err)
			}
			if engine.config == nil {
				t.Error("engine.config = nil, want non-nil")
			}
			if engine.Status().Trained {
				t.Error("new engine reports trained")
			}
		})
	}
}

func TestEngine_GetConfigReturnsCopy(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, &fakeProvider{})
	cfg := engine.GetConfig()
	cfg.Model.Epochs = 99

	if engine.GetConfig().Model.Epochs == 99 {
		t.Error("GetConfig() exposed internal configuration")
	}
}

// --- Test: Train ---

func TestEngine_TrainEmptyStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		interactions []Interaction
	}{
		{name: "no interactions"},
		{name: "anonymous only", interactions: []Interaction{nav(0, 1), nav(0, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := &fakeProvider{
				interactions: tt.interactions,
				items:        []CatalogItem{product(1, "a", 1), product(2, "b", 2)},
			}
			engine := newTestEngine(t, provider)

			outcome, err := engine.Train(context.Background(), true)
			if err != nil {
				t.Fatalf("Train() error = %v", err)
			}
			if outcome != TrainOutcomeEmpty {
				t.Errorf("Train() outcome = %q, want %q", outcome, TrainOutcomeEmpty)
			}
			if engine.Status().Trained {
				t.Error("Status().Trained = true after empty pass")
			}
			if engine.TrainingCount() != 0 {
				t.Errorf("TrainingCount() = %d, want 0", engine.TrainingCount())
			}
		})
	}
}

func TestEngine_TrainPublishesSnapshot(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(1, 11), nav(2, 11), nav(0, 12), nav(3, 12)},
		items: []CatalogItem{
			product(10, "red running shoes", 30),
			product(11, "blue running shoes", 35),
			product(12, "wool socks", 5),
		},
	}
	engine := newTestEngine(t, provider)

	outcome, err := engine.Train(context.Background(), false)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if outcome != TrainOutcomeTrained {
		t.Fatalf("Train() outcome = %q, want %q", outcome, TrainOutcomeTrained)
	}

	st := engine.Status()
	if !st.Trained {
		t.Fatal("Status().Trained = false after training")
	}
	if st.Users != 3 {
		t.Errorf("Status().Users = %d, want 3", st.Users)
	}
	if st.Items != 3 {
		t.Errorf("Status().Items = %d, want 3", st.Items)
	}
	if st.IndexedProducts != 3 {
		t.Errorf("Status().IndexedProducts = %d, want 3", st.IndexedProducts)
	}
	if st.ModelVersion != 1 {
		t.Errorf("Status().ModelVersion = %d, want 1", st.ModelVersion)
	}

	s := engine.current.Load()
	if err := s.index.Validate(); err != nil {
		t.Errorf("index.Validate() error = %v", err)
	}
	if len(s.itemEmbeddings) != s.index.NumItems() {
		t.Errorf("embedding rows = %d, want %d", len(s.itemEmbeddings), s.index.NumItems())
	}
	if s.model.NumUsers() != s.index.NumUsers() {
		t.Errorf("model users = %d, want %d", s.model.NumUsers(), s.index.NumUsers())
	}
}

func TestEngine_TrainThrottle(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(2, 11)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2)},
	}
	engine := newTestEngine(t, provider)
	ctx := context.Background()

	if outcome, err := engine.Train(ctx, false); err != nil || outcome != TrainOutcomeTrained {
		t.Fatalf("first Train() = %q, %v; want trained", outcome, err)
	}
	if outcome, err := engine.Train(ctx, false); err != nil || outcome != TrainOutcomeFresh {
		t.Fatalf("second Train() = %q, %v; want fresh", outcome, err)
	}
	if got := engine.TrainingCount(); got != 1 {
		t.Errorf("TrainingCount() = %d, want 1", got)
	}

	if outcome, err := engine.Train(ctx, true); err != nil || outcome != TrainOutcomeTrained {
		t.Fatalf("forced Train() = %q, %v; want trained", outcome, err)
	}
	if got := engine.TrainingCount(); got != 2 {
		t.Errorf("TrainingCount() = %d, want 2", got)
	}

	// Past the refresh interval the snapshot is stale again.
	engine.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if outcome, err := engine.Train(ctx, false); err != nil || outcome != TrainOutcomeTrained {
		t.Fatalf("stale Train() = %q, %v; want trained", outcome, err)
	}
}

func TestEngine_ConcurrentTrain(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(1, 11), nav(2, 10)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2)},
	}
	engine := newTestEngine(t, provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Train(context.Background(), false); err != nil {
				t.Errorf("Train() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := engine.TrainingCount(); got != 1 {
		t.Errorf("TrainingCount() = %d, want 1", got)
	}
}

func TestEngine_ReadersDuringRetrain(t *testing.T) {
	t.Parallel()

	const numItems = 38
	provider := &fakeProvider{}
	for id := int64(1); id <= numItems; id++ {
		name := "trail shoe"
		if id%2 == 1 {
			name = "wool sock"
		}
		provider.items = append(provider.items, product(id, name, float64(id)))
	}
	provider.interactions = []Interaction{nav(1, 1), nav(1, 2), nav(2, 3), nav(3, 1)}
	engine := newTestEngine(t, provider)
	ctx := context.Background()

	if _, err := engine.Train(ctx, true); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	var (
		stop    atomic.Bool
		readers sync.WaitGroup
	)
	personal := Identity{Authenticated: true, UserID: 1, NavigationCount: 10}
	readerOps := []func() error{
		func() error {
			_, err := engine.GetRecommendations(ctx, personal, FilterCriteria{}, SortNone)
			return err
		},
		func() error {
			_, err := engine.GetRecommendations(ctx, AnonymousIdentity(), FilterCriteria{Query: "trail shoe"}, SortNone)
			return err
		},
		func() error {
			_, err := engine.GetSimilar(ctx, 1)
			return err
		},
		func() error {
			if st := engine.Status(); !st.Trained || st.Items == 0 || st.Users == 0 {
				return fmt.Errorf("status %+v after first training", st)
			}
			return nil
		},
	}
	for _, op := range readerOps {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for !stop.Load() {
				if err := op(); err != nil {
					t.Errorf("reader error = %v", err)
					return
				}
				s := engine.current.Load()
				if err := s.index.Validate(); err != nil {
					t.Errorf("published index invalid: %v", err)
					return
				}
				if len(s.itemEmbeddings) != s.index.NumItems() {
					t.Errorf("published snapshot has %d embeddings for %d items", len(s.itemEmbeddings), s.index.NumItems())
					return
				}
			}
		}()
	}

	for round := 0; round < 30; round++ {
		provider.mu.Lock()
		item := int64(round%numItems) + 1
		provider.interactions = append(provider.interactions, nav(int64(round%5)+1, item), nav(4, numItems-item+1))
		provider.mu.Unlock()

		if _, err := engine.Train(ctx, true); err != nil {
			t.Errorf("Train() round %d error = %v", round, err)
		}
	}
	stop.Store(true)
	readers.Wait()

	s := engine.current.Load()
	if err := s.index.Validate(); err != nil {
		t.Errorf("index.Validate() error = %v", err)
	}
	if len(s.itemEmbeddings) != s.index.NumItems() {
		t.Errorf("embedding rows = %d, want %d", len(s.itemEmbeddings), s.index.NumItems())
	}
	if got := engine.TrainingCount(); got != 31 {
		t.Errorf("TrainingCount() = %d, want 31", got)
	}
}

func TestEngine_ForcedTrainKeepsShape(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(1, 11), nav(2, 12)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2), product(12, "c", 3)},
	}
	engine := newTestEngine(t, provider)
	ctx := context.Background()

	if _, err := engine.Train(ctx, true); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	first := engine.Status()
	if _, err := engine.Train(ctx, true); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	second := engine.Status()

	if first.Users != second.Users || first.Items != second.Items || first.Terms != second.Terms {
		t.Errorf("shape changed: %+v -> %+v", first, second)
	}
	if second.ModelVersion != first.ModelVersion+1 {
		t.Errorf("ModelVersion = %d, want %d", second.ModelVersion, first.ModelVersion+1)
	}
}

func TestEngine_TrainUpstreamFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	provider := &fakeProvider{interactionsErr: storeErr}
	engine := newTestEngine(t, provider)

	outcome, err := engine.Train(context.Background(), true)
	if err == nil {
		t.Fatal("Train() = nil error, want error")
	}
	if outcome != TrainOutcomeFailed {
		t.Errorf("Train() outcome = %q, want %q", outcome, TrainOutcomeFailed)
	}
	if !IsUpstreamError(err) {
		t.Errorf("IsUpstreamError(%v) = false, want true", err)
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("error %v does not wrap the store error", err)
	}
	if engine.Status().LastError == "" {
		t.Error("Status().LastError is empty after a failed pass")
	}
}

func TestEngine_FailedRetrainKeepsSnapshot(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(2, 11)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2)},
	}
	engine := newTestEngine(t, provider)
	ctx := context.Background()

	if _, err := engine.Train(ctx, true); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	before := engine.current.Load()

	provider.mu.Lock()
	provider.itemsErr = errors.New("timeout")
	provider.mu.Unlock()

	if _, err := engine.Train(ctx, true); err == nil {
		t.Fatal("Train() = nil error, want error")
	}
	if engine.current.Load() != before {
		t.Error("failed pass replaced the published snapshot")
	}
}

func TestEngine_LazyRetrainIsShared(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(2, 11)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2)},
	}
	engine := newTestEngine(t, provider)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s := engine.ensureFresh(context.Background()); s == nil {
				t.Error("ensureFresh() = nil, want snapshot")
			}
		}()
	}
	wg.Wait()

	if got := engine.TrainingCount(); got != 1 {
		t.Errorf("TrainingCount() = %d, want 1", got)
	}
}

func TestEngine_LazyRetrainIgnoresCancellation(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(1, 10), nav(2, 11)},
		items:        []CatalogItem{product(10, "a", 1), product(11, "b", 2)},
	}
	engine := newTestEngine(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if s := engine.ensureFresh(ctx); s == nil {
		t.Fatal("ensureFresh() with canceled request = nil, want snapshot")
	}
}

// --- Test: ResolveIdentity ---

func TestEngine_ResolveIdentity(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		interactions: []Interaction{nav(7, 1), nav(7, 2), nav(8, 1)},
	}
	engine := newTestEngine(t, provider)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID int64
		want   Identity
	}{
		{name: "anonymous", userID: 0, want: AnonymousIdentity()},
		{name: "user with history", userID: 7, want: Identity{Authenticated: true, UserID: 7, NavigationCount: 2}},
		{name: "user without history", userID: 9, want: Identity{Authenticated: true, UserID: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ResolveIdentity(ctx, tt.userID)
			if err != nil {
				t.Fatalf("ResolveIdentity() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveIdentity() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
