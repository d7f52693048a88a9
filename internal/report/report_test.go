// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/schedule"
)

func testSchedule() *schedule.Schedule {
	nasi := &catalog.MealEntry{ID: 1, Name: "Nasi Uduk", Type: catalog.TypeBreakfast, Calories: 350, Protein: 8.5}
	soto := &catalog.MealEntry{ID: 2, Name: "Soto <Ayam>", Type: catalog.TypeLunch, Calories: 420, Protein: 25}
	start := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	return &schedule.Schedule{
		ID:        "test",
		StartDate: start,
		Days: []schedule.DailySchedule{
			{
				Date: start,
				Slots: []schedule.Slot{
					{MealType: catalog.TypeBreakfast, Meal: nasi},
					{MealType: catalog.TypeLunch, Meal: soto},
					{MealType: catalog.TypeDinner},
				},
				TotalCalories: 770,
				WithinBudget:  true,
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

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteText(&buf, testSchedule()); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== Jadwal Senin, 19 Oktober 2026 ===",
		"=== Jadwal Selasa, 20 Oktober 2026 ===",
		"Sarapan:\n  - Menu: Nasi Uduk\n  - Kalori: 350 kcal\n  - Protein: 8.5g",
		"Makan Siang:\n  - Menu: Soto <Ayam>",
		"Makan Malam:\n  - Tidak ada rekomendasi yang tersedia",
		"Total Kalori: 770 kcal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText() output missing %q\n%s", want, out)
		}
	}
	if got := strings.Count(out, LabelUnavailable); got != 4 {
		t.Errorf("unavailable lines = %d, want 4", got)
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteHTML(&buf, testSchedule()); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"date columns", "<th>2026-10-19</th><th>2026-10-20</th>"},
		{"meal cell", "<td>Nasi Uduk<br>350 kcal<br>8.5 g Protein</td>"},
		{"escaped name", "Soto &lt;Ayam&gt;"},
		{"empty cell", `<td class="empty">Tidak ada rekomendasi yang tersedia</td>`},
		{"row header", "<tr><th>Makan Malam</th>"},
		{"totals", "<td>770 kcal</td><td>0 kcal</td>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("WriteHTML() output missing %q", tt.want)
			}
		})
	}

	if strings.Contains(out, "<Ayam>") {
		t.Error("WriteHTML() did not escape meal name")
	}
}

func TestWriteHTML_OverBudgetDay(t *testing.T) {
	t.Parallel()

	s := testSchedule()
	s.Days[0].WithinBudget = false

	var buf bytes.Buffer
	if err := WriteHTML(&buf, s); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	if !strings.Contains(buf.String(), `<td class="over">770 kcal</td>`) {
		t.Error("over-budget total not marked")
	}
}

func TestWriteHTMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "meal_schedule.html")
	if err := WriteHTMLFile(path, testSchedule()); err != nil {
		t.Fatalf("WriteHTMLFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("<!DOCTYPE html>")) {
		t.Errorf("report does not start with doctype: %q", data[:min(len(data), 40)])
	}
}

func TestNilSchedule(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteText(&buf, nil); !errors.Is(err, ErrNilSchedule) {
		t.Errorf("WriteText(nil) error = %v, want ErrNilSchedule", err)
	}
	if err := WriteHTML(&buf, nil); !errors.Is(err, ErrNilSchedule) {
		t.Errorf("WriteHTML(nil) error = %v, want ErrNilSchedule", err)
	}
}
