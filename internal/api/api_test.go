// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/config"
	"github.com/tomtom215/mealplan/internal/database"
	"github.com/tomtom215/mealplan/internal/middleware"
	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/recommend/features"
	"github.com/tomtom215/mealplan/internal/schedule"
)

func testMeals() []catalog.MealEntry {
	return []catalog.MealEntry{
		{ID: 1, Name: "Telur Rebus", Type: catalog.TypeBreakfast, Calories: 100, Protein: 12, Fat: 10, Carbs: 1, Fiber: 0.5, Ingredients: []string{"telur"}, Tags: []string{"rendah kalori"}},
		{ID: 2, Name: "Nasi Ayam", Type: catalog.TypeLunch, Calories: 500, Protein: 25, Fat: 12, Carbs: 60, Fiber: 3, Ingredients: []string{"nasi", "ayam"}, Tags: []string{"tinggi kalori"}},
		{ID: 3, Name: "Roti Telur", Type: catalog.TypeBreakfast, Calories: 150, Protein: 9, Fat: 6, Carbs: 20, Fiber: 1, Ingredients: []string{"roti", "telur"}, Tags: []string{"rendah kalori"}},
		{ID: 4, Name: "Nasi Ikan", Type: catalog.TypeLunch, Calories: 450, Protein: 22, Fat: 8, Carbs: 55, Fiber: 2.8, Ingredients: []string{"nasi", "ikan"}, Tags: []string{"tinggi kalori"}},
		{ID: 5, Name: "Rendang", Type: catalog.TypeDinner, Calories: 700, Protein: 35, Fat: 40, Carbs: 10, Fiber: 0.5, Ingredients: []string{"sapi"}, Tags: []string{"tinggi kalori", "pedas"}},
		{ID: 6, Name: "Ikan Bakar", Type: catalog.TypeDinner, Calories: 650, Protein: 40, Fat: 20, Carbs: 5, Fiber: 0.5, Ingredients: []string{"ikan"}, Tags: []string{"tinggi kalori", "bakar"}},
	}
}

func newTestHolder(t *testing.T) *recommend.Holder {
	t.Helper()
	cat, err := catalog.NewCatalog(testMeals())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	art, err := recommend.Train(context.Background(), cat, features.Options{})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	engine, err := recommend.NewEngine(art, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return recommend.NewHolder(engine)
}

// memScheduleStore keeps schedules in a map.
type memScheduleStore struct {
	mu        sync.Mutex
	schedules map[string]*schedule.Schedule
	pingErr   error
}

func newMemScheduleStore() *memScheduleStore {
	return &memScheduleStore{schedules: make(map[string]*schedule.Schedule)}
}

func (m *memScheduleStore) SaveSchedule(ctx context.Context, s *schedule.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ID] = s
	return nil
}

func (m *memScheduleStore) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return s, nil
}

func (m *memScheduleStore) ListSchedules(ctx context.Context, limit int) ([]database.ScheduleSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]database.ScheduleSummary, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, database.ScheduleSummary{ID: s.ID, CreatedAt: s.CreatedAt, Days: len(s.Days)})
	}
	return out, nil
}

func (m *memScheduleStore) DeleteSchedule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *memScheduleStore) Ping(ctx context.Context) error { return m.pingErr }

type fakeTraining struct {
	err    error
	status recommend.TrainingStatus
}

func (f *fakeTraining) Trigger() error                   { return f.err }
func (f *fakeTraining) Status() recommend.TrainingStatus { return f.status }

func newTestPreferences(t *testing.T) *preferences.Store {
	t.Helper()
	store, err := preferences.Open(&config.PreferencesConfig{Enabled: true, InMemory: true, MaxHistory: 10})
	if err != nil {
		t.Fatalf("preferences.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testLimits() Limits {
	return Limits{DefaultN: 3, MaxN: 5, DefaultDays: 2, MaxDays: 7, RequestTimeout: 5 * time.Second}
}

// newFullDeps wires every optional dependency.
func newFullDeps(t *testing.T) Dependencies {
	t.Helper()
	holder := newTestHolder(t)
	return Dependencies{
		Engine:      holder,
		Generator:   schedule.NewGenerator(holder, schedule.Options{Seed: 1}, zerolog.Nop()),
		Schedules:   newMemScheduleStore(),
		Preferences: newTestPreferences(t),
		Training:    &fakeTraining{},
		Monitor:     middleware.NewPerformanceMonitor(100, time.Second, zerolog.Nop()),
		Limits:      testLimits(),
	}
}

func newTestRouter(deps Dependencies) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(deps), NewChiMiddleware(cfg))
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}
