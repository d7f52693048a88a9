// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package catalog

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func sampleEntries() []MealEntry {
	return []MealEntry{
		{ID: 1, Name: "Telur Rebus", Type: TypeBreakfast, Calories: 100, Protein: 6, Fat: 5, Carbs: 1, Fiber: 0.5,
			Ingredients: []string{"telur"}, Tags: []string{"rendah kalori"}},
		{ID: 2, Name: "Nasi Ayam", Type: TypeLunch, Calories: 500, Protein: 20, Fat: 12, Carbs: 60, Fiber: 3,
			Ingredients: []string{"nasi", "ayam"}, Tags: []string{"tinggi kalori"}},
	}
}

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []MealEntry
		wantErr error
		wantLen int
	}{
		{
			name:    "valid entries",
			entries: sampleEntries(),
			wantLen: 2,
		},
		{
			name:    "empty catalog is allowed",
			entries: nil,
			wantLen: 0,
		},
		{
			name: "duplicate id",
			entries: []MealEntry{
				{ID: 7, Type: TypeLunch},
				{ID: 7, Type: TypeDinner},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "negative calories",
			entries: []MealEntry{{ID: 1, Calories: -1}},
			wantErr: ErrNegativeNutrition,
		},
		{
			name:    "NaN calories",
			entries: []MealEntry{{ID: 1, Calories: math.NaN()}},
			wantErr: ErrInvalidNutrition,
		},
		{
			name:    "infinite fat",
			entries: []MealEntry{{ID: 1, Fat: math.Inf(1)}},
			wantErr: ErrInvalidNutrition,
		},
		{
			name:    "negative infinite fiber",
			entries: []MealEntry{{ID: 1, Fiber: math.Inf(-1)}},
			wantErr: ErrInvalidNutrition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewCatalog(tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewCatalog() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCatalog() error = %v", err)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(sampleEntries())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	pos, ok := c.Position(2)
	if !ok || pos != 1 {
		t.Errorf("Position(2) = (%d, %v), want (1, true)", pos, ok)
	}
	if _, ok := c.Position(99); ok {
		t.Error("Position(99) found, want missing")
	}

	if _, err := c.Get(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(99) error = %v, want ErrNotFound", err)
	}

	if !c.HasType(TypeLunch) {
		t.Error("HasType(lunch) = false, want true")
	}
	if c.HasType(TypeDinner) {
		t.Error("HasType(dinner) = true, want false")
	}

	wantTypes := []string{TypeLunch, TypeBreakfast}
	if got := c.Types(); !reflect.DeepEqual(got, wantTypes) {
		t.Errorf("Types() = %v, want %v", got, wantTypes)
	}
}

func TestCatalog_IsolatedFromInput(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	c, err := NewCatalog(entries)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	entries[0].Ingredients[0] = "changed"
	got := c.At(0)
	if got.Ingredients[0] != "telur" {
		t.Errorf("catalog entry mutated through input slice: %v", got.Ingredients)
	}

	got.Tags[0] = "changed again"
	if c.At(0).Tags[0] != "rendah kalori" {
		t.Error("catalog entry mutated through At() copy")
	}
}

func TestMealEntry_CombinedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry MealEntry
		want  string
	}{
		{"ingredients and tags", MealEntry{Ingredients: []string{"nasi", "ayam"}, Tags: []string{"pedas"}}, "nasi ayam pedas"},
		{"tags only", MealEntry{Tags: []string{"manis"}}, " manis"},
		{"empty", MealEntry{}, " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.CombinedText(); got != tt.want {
				t.Errorf("CombinedText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"json array", `["nasi","ayam"]`, []string{"nasi", "ayam"}, false},
		{"python style", `['bahan utama', 'bumbu']`, []string{"bahan utama", "bumbu"}, false},
		{"empty cell", "", []string{}, false},
		{"empty list", "[]", []string{}, false},
		{"garbage", "nasi, ayam", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseList(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"id,name,type,calories,protein,fat,carbs,fiber,ingredients,tags,extra",
		`1,Telur Rebus,Sarapan,100,6,5,1,0.5,['telur'],['rendah kalori'],x`,
		`2,Nasi Ayam,Makan Siang,500,20,12,60,3,"[""nasi"",""ayam""]",[],y`,
	}, "\n")

	c, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	m, err := c.Get(2)
	if err != nil {
		t.Fatalf("Get(2) error = %v", err)
	}
	if !reflect.DeepEqual(m.Ingredients, []string{"nasi", "ayam"}) {
		t.Errorf("Ingredients = %v, want [nasi ayam]", m.Ingredients)
	}
	if len(m.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", m.Tags)
	}
	if m.Calories != 500 {
		t.Errorf("Calories = %v, want 500", m.Calories)
	}
}

func TestLoadCSV_NonFiniteNutrition(t *testing.T) {
	t.Parallel()

	const header = "id,name,type,calories,protein,fat,carbs,fiber,ingredients,tags"
	tests := []struct {
		name string
		row  string
	}{
		{name: "NaN calories", row: `2,Nasi Ayam,Makan Siang,NaN,20,12,60,3,[],[]`},
		{name: "Inf protein", row: `2,Nasi Ayam,Makan Siang,500,Inf,12,60,3,[],[]`},
		{name: "+Inf carbs", row: `2,Nasi Ayam,Makan Siang,500,20,12,+Inf,3,[],[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := header + "\n" + `1,Telur Rebus,Sarapan,100,6,5,1,0.5,[],[]` + "\n" + tt.row + "\n"
			_, err := LoadCSV(strings.NewReader(input))
			if !errors.Is(err, ErrInvalidNutrition) {
				t.Errorf("LoadCSV() error = %v, want ErrInvalidNutrition", err)
			}
		})
	}
}

func TestMealEntry_CloneKeepsEmptyLists(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog([]MealEntry{
		{ID: 1, Ingredients: []string{}, Tags: []string{}},
		{ID: 2},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	empty := c.At(0)
	if empty.Ingredients == nil || empty.Tags == nil {
		t.Errorf("At(0) lists = %#v / %#v, want non-nil empty", empty.Ingredients, empty.Tags)
	}
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"ingredients":[]`) || !strings.Contains(string(data), `"tags":[]`) {
		t.Errorf("JSON = %s, want empty arrays", data)
	}

	unset := c.At(1)
	if unset.Ingredients != nil || unset.Tags != nil {
		t.Errorf("At(1) lists = %#v / %#v, want nil", unset.Ingredients, unset.Tags)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV(strings.NewReader("id,name\n1,x\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("LoadCSV() error = %v, want ErrMissingColumn", err)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(sampleEntries())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, c); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	back, err := LoadCSV(&buf)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if !reflect.DeepEqual(back.Entries(), c.Entries()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back.Entries(), c.Entries())
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	input := `[{"id":3,"name":"Rendang","type":"Makan Malam","calories":700,"protein":30,"fat":40,"carbs":10,"fiber":1,"ingredients":["daging sapi"],"tags":["padang"]}]`
	c, err := LoadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	if c.Len() != 1 || c.IDAt(0) != 3 || c.TypeAt(0) != TypeDinner {
		t.Errorf("LoadJSON() = %+v", c.Entries())
	}
}
