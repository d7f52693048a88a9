// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/recommend/features"
)

// twoMeals is the minimal two-entry catalog.
func twoMeals() []catalog.MealEntry {
	return []catalog.MealEntry{
		{ID: 1, Name: "Telur Rebus", Type: catalog.TypeBreakfast, Calories: 100, Ingredients: []string{"telur"}, Tags: []string{"rendah kalori"}},
		{ID: 2, Name: "Nasi Ayam", Type: catalog.TypeLunch, Calories: 500, Ingredients: []string{"nasi", "ayam"}, Tags: []string{"tinggi kalori"}},
	}
}

func sixMeals() []catalog.MealEntry {
	return []catalog.MealEntry{
		{ID: 1, Name: "Telur Rebus", Type: catalog.TypeBreakfast, Calories: 100, Protein: 12, Fat: 10, Carbs: 1, Fiber: 0.5, Ingredients: []string{"telur"}, Tags: []string{"rendah kalori"}},
		{ID: 2, Name: "Nasi Ayam", Type: catalog.TypeLunch, Calories: 500, Protein: 25, Fat: 12, Carbs: 60, Fiber: 3, Ingredients: []string{"nasi", "ayam"}, Tags: []string{"tinggi kalori"}},
		{ID: 3, Name: "Roti Telur", Type: catalog.TypeBreakfast, Calories: 150, Protein: 9, Fat: 6, Carbs: 20, Fiber: 1, Ingredients: []string{"roti", "telur"}, Tags: []string{"rendah kalori"}},
		{ID: 4, Name: "Nasi Ikan", Type: catalog.TypeLunch, Calories: 450, Protein: 22, Fat: 8, Carbs: 55, Fiber: 2.8, Ingredients: []string{"nasi", "ikan"}, Tags: []string{"tinggi kalori"}},
		{ID: 5, Name: "Rendang", Type: catalog.TypeDinner, Calories: 700, Protein: 35, Fat: 40, Carbs: 10, Fiber: 0.5, Ingredients: []string{"sapi"}, Tags: []string{"tinggi kalori", "pedas"}},
		{ID: 6, Name: "Ikan Bakar", Type: catalog.TypeDinner, Calories: 650, Protein: 40, Fat: 20, Carbs: 5, Fiber: 0.5, Ingredients: []string{"ikan"}, Tags: []string{"tinggi kalori", "bakar"}},
	}
}

func newTestArtifacts(t *testing.T, entries []catalog.MealEntry) *Artifacts {
	t.Helper()
	cat, err := catalog.NewCatalog(entries)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	art, err := Train(context.Background(), cat, features.Options{})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return art
}

func newTestEngine(t *testing.T, entries []catalog.MealEntry, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(newTestArtifacts(t, entries), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ids(meals []catalog.MealEntry) []int64 {
	out := make([]int64, len(meals))
	for i := range meals {
		out[i] = meals[i].ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	art := newTestArtifacts(t, twoMeals())

	tests := []struct {
		name    string
		art     *Artifacts
		cfg     *Config
		wantErr error
	}{
		{"default config", art, nil, nil},
		{"nil artifacts", nil, nil, ErrNotReady},
		{"broken matrix", &Artifacts{Vectorizer: art.Vectorizer, Scaler: art.Scaler, Catalog: art.Catalog, Matrix: art.Matrix[:1]}, nil, ErrArtifactMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEngine(tt.art, tt.cfg, zerolog.Nop())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("NewEngine() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("NewEngine() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Limits.DefaultN = 0
		if _, err := NewEngine(art, cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() error = nil, want config error")
		}
	})
}

func TestEngine_Recommend_TwoMealScenarios(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, twoMeals(), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		history  []int64
		n        int
		mealType string
		want     []int64
	}{
		{"lunch similar to breakfast history", []int64{1}, 1, catalog.TypeLunch, []int64{2}},
		{"no type and empty history keeps catalog order", nil, 2, "", []int64{1, 2}},
		{"no type and empty history truncated", nil, 1, "", []int64{1}},
		{"history excluded", []int64{1}, 5, "", []int64{2}},
		{"type filter leaves only history", []int64{1}, 5, catalog.TypeBreakfast, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Recommend(ctx, tt.history, tt.n, tt.mealType)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Recommend() ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestEngine_Recommend_Errors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, twoMeals(), nil)
	ctx := context.Background()

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		n        int
		mealType string
		wantErr  error
	}{
		{"zero count", ctx, 0, "", ErrInvalidCount},
		{"negative count", ctx, -3, "", ErrInvalidCount},
		{"label absent from catalog", ctx, 1, catalog.TypeDinner, ErrUnknownMealType},
		{"made-up label", ctx, 1, "Brunch", ErrUnknownMealType},
		{"canceled context", canceled, 1, "", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := e.Recommend(tt.ctx, []int64{1}, tt.n, tt.mealType)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Recommend_Properties(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, sixMeals(), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		history  []int64
		n        int
		mealType string
	}{
		{"single history no filter", []int64{2}, 10, ""},
		{"two history lunch", []int64{1, 5}, 2, catalog.TypeLunch},
		{"dinner with duplicates", []int64{6, 6, 6}, 3, catalog.TypeDinner},
		{"unknown ids only", []int64{999, 1000}, 4, ""},
		{"mixed known and unknown", []int64{3, 999}, 6, catalog.TypeBreakfast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.RecommendScored(ctx, tt.history, tt.n, tt.mealType)
			if err != nil {
				t.Fatalf("RecommendScored() error = %v", err)
			}
			if len(got) > tt.n {
				t.Errorf("len = %d, want <= %d", len(got), tt.n)
			}

			hist := make(map[int64]bool)
			for _, id := range tt.history {
				hist[id] = true
			}
			for i, sm := range got {
				if tt.mealType != "" && sm.Meal.Type != tt.mealType {
					t.Errorf("result %d type = %q, want %q", i, sm.Meal.Type, tt.mealType)
				}
				if hist[sm.Meal.ID] {
					t.Errorf("result %d id %d is in the history", i, sm.Meal.ID)
				}
				if i == 0 {
					continue
				}
				prev := got[i-1]
				if sm.Score > prev.Score {
					t.Errorf("score[%d] = %v > score[%d] = %v", i, sm.Score, i-1, prev.Score)
				}
				if sm.Score == prev.Score && sm.Position < prev.Position {
					t.Errorf("tie at %d not in ascending position order", i)
				}
			}
		})
	}
}

func TestEngine_Recommend_UnknownHistoryMatchesEmpty(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, sixMeals(), &Config{
		Limits:   DefaultConfig().Limits,
		Training: DefaultConfig().Training,
	})
	ctx := context.Background()

	empty, err := e.Recommend(ctx, nil, 6, "")
	if err != nil {
		t.Fatalf("Recommend(empty) error = %v", err)
	}
	unknown, err := e.Recommend(ctx, []int64{404}, 6, "")
	if err != nil {
		t.Fatalf("Recommend(unknown) error = %v", err)
	}
	want := []int64{1, 2, 3, 4, 5, 6}
	if !equalIDs(ids(empty), want) || !equalIDs(ids(unknown), want) {
		t.Errorf("ids = %v / %v, want %v", ids(empty), ids(unknown), want)
	}
}

func TestEngine_Recommend_Cache(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, sixMeals(), nil)
	ctx := context.Background()

	first, err := e.RecommendScored(ctx, []int64{2}, 3, "")
	if err != nil {
		t.Fatalf("RecommendScored() error = %v", err)
	}
	first[0].Meal.Ingredients[0] = "mutated"
	first[0].Score = -1

	second, err := e.RecommendScored(ctx, []int64{2, 2}, 3, "")
	if err != nil {
		t.Fatalf("RecommendScored() error = %v", err)
	}
	if second[0].Score == -1 || second[0].Meal.Ingredients[0] == "mutated" {
		t.Error("cached result shares memory with a returned result")
	}

	stats := e.Stats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", stats.CacheHits, stats.CacheMisses)
	}
	if stats.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", stats.RequestCount)
	}

	e.ClearCache()
	if _, err := e.RecommendScored(ctx, []int64{2}, 3, ""); err != nil {
		t.Fatalf("RecommendScored() error = %v", err)
	}
	if got := e.Stats().CacheMisses; got != 2 {
		t.Errorf("CacheMisses after clear = %d, want 2", got)
	}
}

func TestEngine_Recommend_CacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	e := newTestEngine(t, sixMeals(), cfg)

	for i := 0; i < 3; i++ {
		if _, err := e.Recommend(context.Background(), []int64{1}, 2, ""); err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
	}
	if s := e.Stats(); s.CacheHits != 0 || s.CacheMisses != 0 {
		t.Errorf("cache hits/misses = %d/%d, want 0/0", s.CacheHits, s.CacheMisses)
	}
}

func TestEngine_MealAndSimilarity(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, sixMeals(), nil)

	m, err := e.Meal(5)
	if err != nil || m.Name != "Rendang" {
		t.Errorf("Meal(5) = %+v, %v; want Rendang", m, err)
	}
	if _, err := e.Meal(99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Meal(99) error = %v, want ErrNotFound", err)
	}

	self, err := e.Similarity(2, 2)
	if err != nil || self < 0.999999 {
		t.Errorf("Similarity(2, 2) = %v, %v; want 1", self, err)
	}
	if _, err := e.Similarity(2, 99); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Similarity(2, 99) error = %v, want ErrNotFound", err)
	}
}

func TestEngine_cacheKey(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, twoMeals(), nil)
	tests := []struct {
		positions []int
		n         int
		mealType  string
		want      string
	}{
		{nil, 5, "", "rec:5::"},
		{[]int{0, 1}, 3, catalog.TypeLunch, "rec:3:Makan Siang:0,1"},
	}
	for _, tt := range tests {
		if got := e.cacheKey(tt.positions, tt.n, tt.mealType); got != tt.want {
			t.Errorf("cacheKey(%v, %d, %q) = %q, want %q", tt.positions, tt.n, tt.mealType, got, tt.want)
		}
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, sixMeals(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			history := []int64{int64(i%6 + 1)}
			if _, err := e.Recommend(ctx, history, 3, ""); err != nil {
				t.Errorf("Recommend() error = %v", err)
			}
			if i%5 == 0 {
				e.ClearCache()
			}
		}(i)
	}
	wg.Wait()

	if got := e.Stats().RequestCount; got != 20 {
		t.Errorf("RequestCount = %d, want 20", got)
	}
}

func TestHolder(t *testing.T) {
	t.Parallel()

	h := NewHolder(nil)
	if _, err := h.Get(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Get() error = %v, want ErrNotReady", err)
	}
	if _, err := h.Recommend(context.Background(), nil, 1, ""); !errors.Is(err, ErrNotReady) {
		t.Errorf("Recommend() error = %v, want ErrNotReady", err)
	}

	e := newTestEngine(t, twoMeals(), nil)
	if prev := h.Swap(e); prev != nil {
		t.Errorf("Swap() previous = %v, want nil", prev)
	}
	got, err := h.Recommend(context.Background(), []int64{1}, 1, catalog.TypeLunch)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !equalIDs(ids(got), []int64{2}) {
		t.Errorf("Recommend() ids = %v, want [2]", ids(got))
	}
}
