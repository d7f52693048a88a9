// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package database

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/config"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/schedule"
)

var _ recommend.CatalogSource = (*DB)(nil)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Driver: DriverSQLite, Path: MemoryPath})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { closeQuietly(db) })
	return db
}

func testMeals() []catalog.MealEntry {
	return []catalog.MealEntry{
		{ID: 3, Name: "Rendang", Type: catalog.TypeDinner, Calories: 650, Protein: 30, Fat: 40, Carbs: 8, Fiber: 0.5,
			Ingredients: []string{"daging sapi", "santan"}, Tags: []string{"pedas", "padang", "tradisional"}},
		{ID: 1, Name: "Bubur Ayam", Type: catalog.TypeBreakfast, Calories: 250, Protein: 12, Fat: 5, Carbs: 40, Fiber: 2,
			Ingredients: []string{"ayam", "beras"}, Tags: []string{}},
		{ID: 2, Name: "Gado-gado", Type: catalog.TypeLunch, Calories: 400, Protein: 15, Fat: 20, Carbs: 35, Fiber: 3.5,
			Ingredients: []string{}, Tags: []string{"nabati", "sayuran"}},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.NewCatalog(testMeals())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return cat
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := New(&config.DatabaseConfig{Driver: "postgres"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("New() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestCatalog_SaveLoad(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveCatalog(ctx, testCatalog(t)); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}

	cat, err := db.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cat.Len())
	}

	want := testMeals()
	byID := map[int64]catalog.MealEntry{}
	for _, m := range want {
		byID[m.ID] = m
	}
	for pos, id := range []int64{1, 2, 3} {
		got := cat.At(pos)
		if got.ID != id {
			t.Errorf("At(%d).ID = %d, want %d (ordered by id)", pos, got.ID, id)
			continue
		}
		if !reflect.DeepEqual(got, byID[id]) {
			t.Errorf("meal %d = %+v, want %+v", id, got, byID[id])
		}
	}
}

func TestCatalog_SaveReplaces(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveCatalog(ctx, testCatalog(t)); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	small, err := catalog.NewCatalog(testMeals()[:1])
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if err := db.SaveCatalog(ctx, small); err != nil {
		t.Fatalf("SaveCatalog() second call error = %v", err)
	}

	n, err := db.MealCount(ctx)
	if err != nil {
		t.Fatalf("MealCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("MealCount() = %d, want 1", n)
	}
}

func TestCatalog_LoadEmpty(t *testing.T) {
	t.Parallel()

	cat, err := newTestDB(t).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if cat.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cat.Len())
	}
}

func testSchedule(id string, created time.Time) *schedule.Schedule {
	meals := testMeals()
	start := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	breakfast, lunch := meals[1], meals[2]

	return &schedule.Schedule{
		ID:        id,
		CreatedAt: created,
		StartDate: start,
		Preferences: schedule.Preferences{
			History:     []int64{45, 120, 300},
			MaxCalories: 2000,
		},
		Days: []schedule.DailySchedule{
			{
				Date: start,
				Slots: []schedule.Slot{
					{MealType: catalog.TypeBreakfast, Meal: &breakfast},
					{MealType: catalog.TypeLunch, Meal: &lunch},
					{MealType: catalog.TypeDinner},
				},
				TotalCalories:  650,
				RepairAttempts: 1,
				Repaired:       true,
				WithinBudget:   true,
			},
			{
				Date: start.AddDate(0, 0, 1),
				Slots: []schedule.Slot{
					{MealType: catalog.TypeBreakfast},
					{MealType: catalog.TypeLunch},
					{MealType: catalog.TypeDinner},
				},
				WithinBudget: true,
			},
		},
	}
}

func TestSchedule_SaveGet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	created := time.Date(2026, time.October, 19, 8, 30, 15, 123456789, time.FixedZone("WIB", 7*3600))
	want := testSchedule("sched-1", created)

	if err := db.SaveSchedule(ctx, want); err != nil {
		t.Fatalf("SaveSchedule() error = %v", err)
	}

	got, err := db.GetSchedule(ctx, "sched-1")
	if err != nil {
		t.Fatalf("GetSchedule() error = %v", err)
	}

	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if !got.StartDate.Equal(want.StartDate) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, want.StartDate)
	}
	if !reflect.DeepEqual(got.Preferences, want.Preferences) {
		t.Errorf("Preferences = %+v, want %+v", got.Preferences, want.Preferences)
	}
	if len(got.Days) != len(want.Days) {
		t.Fatalf("len(Days) = %d, want %d", len(got.Days), len(want.Days))
	}
	for d := range want.Days {
		if !reflect.DeepEqual(got.Days[d], want.Days[d]) {
			t.Errorf("Days[%d] = %+v, want %+v", d, got.Days[d], want.Days[d])
		}
	}
	if got.UnavailableSlots() != 4 {
		t.Errorf("UnavailableSlots() = %d, want 4", got.UnavailableSlots())
	}
}

func TestSchedule_GetMissing(t *testing.T) {
	t.Parallel()

	_, err := newTestDB(t).GetSchedule(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSchedule() error = %v, want ErrNotFound", err)
	}
}

func TestSchedule_DuplicateID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	s := testSchedule("dup", time.Now())

	if err := db.SaveSchedule(ctx, s); err != nil {
		t.Fatalf("SaveSchedule() error = %v", err)
	}
	if err := db.SaveSchedule(ctx, s); err == nil {
		t.Fatal("SaveSchedule() duplicate id error = nil")
	}

	// The failed insert must not leave partial rows behind.
	got, err := db.GetSchedule(ctx, "dup")
	if err != nil {
		t.Fatalf("GetSchedule() error = %v", err)
	}
	if len(got.Days[0].Slots) != 3 {
		t.Errorf("len(Slots) = %d, want 3", len(got.Days[0].Slots))
	}
}

func TestSchedule_List(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := db.SaveSchedule(ctx, testSchedule(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveSchedule(%s) error = %v", id, err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"newest first", 10, []string{"c", "b", "a"}},
		{"limited", 2, []string{"c", "b"}},
		{"default limit", 0, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListSchedules(ctx, tt.limit)
			if err != nil {
				t.Fatalf("ListSchedules() error = %v", err)
			}
			ids := make([]string, len(got))
			for i := range got {
				ids[i] = got[i].ID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ListSchedules(%d) = %v, want %v", tt.limit, ids, tt.want)
			}
			if len(got) > 0 && (got[0].Days != 2 || got[0].StartDate != "2026-10-19" || got[0].MaxCalories != 2000) {
				t.Errorf("summary = %+v", got[0])
			}
		})
	}
}

func TestSchedule_Delete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	if err := db.SaveSchedule(ctx, testSchedule("gone", time.Now())); err != nil {
		t.Fatalf("SaveSchedule() error = %v", err)
	}
	if err := db.DeleteSchedule(ctx, "gone"); err != nil {
		t.Fatalf("DeleteSchedule() error = %v", err)
	}
	if _, err := db.GetSchedule(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSchedule() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteSchedule(ctx, "gone"); err != nil {
		t.Errorf("DeleteSchedule() missing id error = %v", err)
	}
}

func TestFileDatabase_Reopen(t *testing.T) {
	t.Parallel()

	cfg := &config.DatabaseConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "data", "mealplan.db")}
	ctx := context.Background()

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.SaveCatalog(ctx, testCatalog(t)); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = New(cfg)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer closeQuietly(db)

	n, err := db.MealCount(ctx)
	if err != nil {
		t.Fatalf("MealCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("MealCount() after reopen = %d, want 3", n)
	}
}
