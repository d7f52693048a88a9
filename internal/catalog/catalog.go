// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package catalog holds the enriched meal catalog consumed by the recommender.
//
// A Catalog is an ordered, immutable sequence of MealEntry records. Position
// order is significant: feature matrix rows are aligned 1:1 with catalog
// positions, so a catalog must never be reordered after features are built.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Meal type labels produced by the enrichment annotator.
const (
	TypeBreakfast = "Sarapan"
	TypeLunch     = "Makan Siang"
	TypeDinner    = "Makan Malam"
)

// MealTypes returns the fixed daily slot order.
func MealTypes() []string {
	return []string{TypeBreakfast, TypeLunch, TypeDinner}
}

// NutritionColumns names the numeric columns in feature order.
var NutritionColumns = []string{"calories", "protein", "fat", "carbs", "fiber"}

var (
	// ErrDuplicateID is returned when two entries share an id.
	ErrDuplicateID = errors.New("duplicate meal id")

	// ErrNegativeNutrition is returned when a nutrition value is below zero.
	ErrNegativeNutrition = errors.New("negative nutrition value")

	// ErrInvalidNutrition is returned for NaN or infinite nutrition values.
	ErrInvalidNutrition = errors.New("invalid nutrition value")

	// ErrNotFound is returned when a meal id is not in the catalog.
	ErrNotFound = errors.New("meal not found")
)

// MealEntry is a single catalog record.
type MealEntry struct {
	// ID is the unique meal identifier.
	ID int64 `json:"id"`

	// Name is the dish name.
	Name string `json:"name"`

	// Type is the meal-type label (Sarapan, Makan Siang, Makan Malam).
	Type string `json:"type"`

	// Calories in kcal.
	Calories float64 `json:"calories"`

	// Protein in grams.
	Protein float64 `json:"protein"`

	// Fat in grams.
	Fat float64 `json:"fat"`

	// Carbs in grams.
	Carbs float64 `json:"carbs"`

	// Fiber in grams.
	Fiber float64 `json:"fiber"`

	// Ingredients lists the main ingredients, may be empty.
	Ingredients []string `json:"ingredients"`

	// Tags lists descriptive tags, may be empty.
	Tags []string `json:"tags"`
}

// CombinedText joins ingredients and tags into the document used for TF-IDF.
func (m *MealEntry) CombinedText() string {
	return strings.Join(m.Ingredients, " ") + " " + strings.Join(m.Tags, " ")
}

// Nutrition returns the numeric columns in NutritionColumns order.
func (m *MealEntry) Nutrition() [5]float64 {
	return [5]float64{m.Calories, m.Protein, m.Fat, m.Carbs, m.Fiber}
}

// Clone returns a deep copy of the entry.
func (m *MealEntry) Clone() MealEntry {
	c := *m
	// Empty lists stay non-nil so they encode as [] rather than null.
	if m.Ingredients != nil {
		c.Ingredients = append(make([]string, 0, len(m.Ingredients)), m.Ingredients...)
	}
	if m.Tags != nil {
		c.Tags = append(make([]string, 0, len(m.Tags)), m.Tags...)
	}
	return c
}

func (m *MealEntry) validate() error {
	for i, v := range m.Nutrition() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: meal %d %s=%g", ErrInvalidNutrition, m.ID, NutritionColumns[i], v)
		}
		if v < 0 {
			return fmt.Errorf("%w: meal %d %s=%g", ErrNegativeNutrition, m.ID, NutritionColumns[i], v)
		}
	}
	return nil
}

// Catalog is an ordered, read-only collection of meals.
// It is safe for concurrent use once constructed.
type Catalog struct {
	entries   []MealEntry
	positions map[int64]int
	typeCount map[string]int
}

// NewCatalog builds a catalog from entries, preserving their order.
// Entries are copied so later mutation of the input has no effect.
func NewCatalog(entries []MealEntry) (*Catalog, error) {
	c := &Catalog{
		entries:   make([]MealEntry, len(entries)),
		positions: make(map[int64]int, len(entries)),
		typeCount: make(map[string]int),
	}

	for i := range entries {
		e := &entries[i]
		if _, dup := c.positions[e.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, e.ID)
		}
		if err := e.validate(); err != nil {
			return nil, err
		}
		c.entries[i] = e.Clone()
		c.positions[e.ID] = i
		c.typeCount[e.Type]++
	}

	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// At returns a copy of the entry at position pos.
func (c *Catalog) At(pos int) MealEntry {
	return c.entries[pos].Clone()
}

// TypeAt returns the meal-type label at position pos without copying the entry.
func (c *Catalog) TypeAt(pos int) string {
	return c.entries[pos].Type
}

// IDAt returns the meal id at position pos.
func (c *Catalog) IDAt(pos int) int64 {
	return c.entries[pos].ID
}

// Entries returns a copy of all entries in position order.
func (c *Catalog) Entries() []MealEntry {
	out := make([]MealEntry, len(c.entries))
	for i := range c.entries {
		out[i] = c.entries[i].Clone()
	}
	return out
}

// Position returns the catalog position for id.
func (c *Catalog) Position(id int64) (int, bool) {
	pos, ok := c.positions[id]
	return pos, ok
}

// Get returns the entry for id.
func (c *Catalog) Get(id int64) (MealEntry, error) {
	pos, ok := c.positions[id]
	if !ok {
		return MealEntry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.entries[pos].Clone(), nil
}

// HasType reports whether any entry carries the label.
func (c *Catalog) HasType(label string) bool {
	return c.typeCount[label] > 0
}

// Types returns the distinct meal-type labels, sorted.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.typeCount))
	for t := range c.typeCount {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TypeCounts returns the number of entries per meal-type label.
func (c *Catalog) TypeCounts() map[string]int {
	out := make(map[string]int, len(c.typeCount))
	for t, n := range c.typeCount {
		out[t] = n
	}
	return out
}
