// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type testState struct {
	Terms  []string
	Weight []float64
	Label  string
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.setup(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && store == nil {
				t.Error("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	data := testState{
		Terms:  []string{"ayam", "nasi"},
		Weight: []float64{1.405, 1},
		Label:  "tfidf",
	}
	meta := ArtifactMetadata{
		TrainedAt:      time.Now(),
		MealCount:      2,
		VocabularySize: 2,
	}

	if err := store.Save(ctx, "tfidf_vectorizer", 1, data, meta); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var loaded testState
	got, err := store.Load(ctx, "tfidf_vectorizer", 1, &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Name != "tfidf_vectorizer" {
		t.Errorf("Name = %s, want tfidf_vectorizer", got.Name)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if got.MealCount != 2 {
		t.Errorf("MealCount = %d, want 2", got.MealCount)
	}
	if got.Checksum == "" {
		t.Error("Checksum should not be empty")
	}
	if got.SizeBytes == 0 {
		t.Error("SizeBytes should not be zero")
	}
	if len(loaded.Terms) != 2 || loaded.Weight[0] != 1.405 || loaded.Label != "tfidf" {
		t.Errorf("loaded = %+v, want %+v", loaded, data)
	}
}

func TestStore_LoadLatest(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 3; v++ {
		if err := store.Save(ctx, "minmax_scaler", v, testState{Weight: []float64{float64(v)}}, ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	var loaded testState
	meta, err := store.Load(ctx, "minmax_scaler", 0, &loaded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Version != 3 {
		t.Errorf("Version = %d, want 3 (latest)", meta.Version)
	}
	if loaded.Weight[0] != 3 {
		t.Errorf("Weight = %v, want [3]", loaded.Weight)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	var loaded testState
	if _, err := store.Load(context.Background(), "feature_matrix", 0, &loaded); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(latest) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Load(context.Background(), "feature_matrix", 7, &loaded); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(v7) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Versions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	if _, ok := store.GetLatestVersion("meal_catalog"); ok {
		t.Error("GetLatestVersion() should return false for missing artifact")
	}
	if got := store.NextVersion(); got != 1 {
		t.Errorf("NextVersion() = %d, want 1", got)
	}

	if err := store.Save(ctx, "meal_catalog", 5, testState{}, ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, "feature_matrix", 2, testState{}, ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if v, ok := store.GetLatestVersion("meal_catalog"); !ok || v != 5 {
		t.Errorf("GetLatestVersion() = (%d, %v), want (5, true)", v, ok)
	}
	if got := store.NextVersion(); got != 6 {
		t.Errorf("NextVersion() = %d, want 6", got)
	}

	// A reopened store sees the same versions.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if v, ok := reopened.GetLatestVersion("feature_matrix"); !ok || v != 2 {
		t.Errorf("reopened GetLatestVersion() = (%d, %v), want (2, true)", v, ok)
	}
}

func TestStore_ListModels(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	names := []string{"tfidf_vectorizer", "minmax_scaler", "feature_matrix"}
	for _, name := range names {
		if err := store.Save(ctx, name, 1, testState{}, ArtifactMetadata{MealCount: 10}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	models, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("len(models) = %d, want 3", len(models))
	}
	want := []string{"feature_matrix", "minmax_scaler", "tfidf_vectorizer"}
	for i, m := range models {
		if m.Name != want[i] {
			t.Errorf("models[%d].Name = %s, want %s", i, m.Name, want[i])
		}
	}
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 2; v++ {
		if err := store.Save(ctx, "meal_catalog", v, testState{}, ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := store.Delete(ctx, "meal_catalog", 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v, ok := store.GetLatestVersion("meal_catalog"); !ok || v != 1 {
		t.Errorf("after deleting latest, GetLatestVersion() = (%d, %v), want (1, true)", v, ok)
	}

	if err := store.Delete(ctx, "meal_catalog", 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.GetLatestVersion("meal_catalog"); ok {
		t.Error("artifact should not exist after deleting every version")
	}

	if err := store.Delete(ctx, "meal_catalog", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Prune(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 5; v++ {
		if err := store.Save(ctx, "feature_matrix", v, testState{}, ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := store.Prune(ctx, "feature_matrix", 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	if v, ok := store.GetLatestVersion("feature_matrix"); !ok || v != 5 {
		t.Errorf("GetLatestVersion() = (%d, %v), want (5, true)", v, ok)
	}

	var loaded testState
	for v := 1; v <= 3; v++ {
		if _, err := store.Load(ctx, "feature_matrix", v, &loaded); err == nil {
			t.Errorf("version %d should have been pruned", v)
		}
	}
	for v := 4; v <= 5; v++ {
		if _, err := store.Load(ctx, "feature_matrix", v, &loaded); err != nil {
			t.Errorf("version %d should still exist: %v", v, err)
		}
	}
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	data := testState{Terms: make([]string, 64)}
	for i := range data.Terms {
		data.Terms[i] = "bumbu"
	}
	if err := store.Save(ctx, "tfidf_vectorizer", 1, data, ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	filename := filepath.Join(dir, "tfidf_vectorizer_v1.gob.gz")
	raw, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	// Flip bytes near the end, inside the compressed payload.
	for i := len(raw) - 12; i < len(raw)-4; i++ {
		raw[i] ^= 0xFF
	}
	if err := os.WriteFile(filename, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var loaded testState
	if _, err := store.Load(ctx, "tfidf_vectorizer", 1, &loaded); err == nil {
		t.Error("Load() should fail with corrupted data")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, "meal_catalog", 1, testState{}, ArtifactMetadata{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			if err := store.Save(ctx, "meal_catalog", v, testState{Label: "x"}, ArtifactMetadata{}); err != nil {
				t.Errorf("Save(v%d) error = %v", v, err)
			}
		}(i)
	}
	wg.Wait()

	if v, ok := store.GetLatestVersion("meal_catalog"); !ok || v != 10 {
		t.Errorf("GetLatestVersion() = (%d, %v), want (10, true)", v, ok)
	}
}

func TestParseArtifactFilename(t *testing.T) {
	tests := []struct {
		in          string
		wantName    string
		wantVersion int
	}{
		{"feature_matrix_v3", "feature_matrix", 3},
		{"tfidf_vectorizer_v12", "tfidf_vectorizer", 12},
		{"no_version", "", 0},
		{"bad_vx", "", 0},
		{"_v1", "", 0},
	}
	for _, tt := range tests {
		name, v := parseArtifactFilename(tt.in)
		if name != tt.wantName || v != tt.wantVersion {
			t.Errorf("parseArtifactFilename(%q) = (%q, %d), want (%q, %d)", tt.in, name, v, tt.wantName, tt.wantVersion)
		}
	}
}
