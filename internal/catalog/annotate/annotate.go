// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package annotate derives meal type, ingredients, tags, and fiber for raw
// nutrition rows using keyword heuristics over the dish name.
//
// The annotator is pure: the same name and nutrition always produce the same
// annotation. All keyword tables live in Rules and can be replaced from YAML.
package annotate

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/mealplan/internal/catalog"
)

// UnknownName replaces a missing dish name.
const UnknownName = "Unknown Food"

// RawMeal is one row of the raw nutrition table.
type RawMeal struct {
	ID       int64
	Name     string
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// Annotator applies a Rules table.
type Annotator struct {
	rules Rules
}

// New returns an annotator over rules.
func New(rules Rules) *Annotator { //nolint:gocritic // hugeParam: copied once at construction
	return &Annotator{rules: rules}
}

// Rules returns the active table.
func (a *Annotator) Rules() Rules {
	return a.rules
}

func (a *Annotator) fold(name string) string {
	s := strings.ToLower(name)
	if a.rules.NormalizeUnicode {
		s = norm.NFKC.String(s)
	}
	return s
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// MealType estimates the meal-type label for a dish.
func (a *Annotator) MealType(name string, calories float64) string {
	s := a.fold(name)
	th := a.rules.Thresholds

	switch {
	case containsAny(s, a.rules.BreakfastKeywords) || calories < th.BreakfastMaxCalories:
		return catalog.TypeBreakfast
	case containsAny(s, a.rules.DinnerKeywords) || calories > th.DinnerMinCalories:
		return catalog.TypeDinner
	default:
		return catalog.TypeLunch
	}
}

// Ingredients extracts the deduplicated, sorted ingredient list for a dish.
func (a *Annotator) Ingredients(name string) []string {
	s := a.fold(name)

	seen := make(map[string]struct{})
	for _, rule := range a.rules.Ingredients {
		if !strings.Contains(s, rule.Keyword) {
			continue
		}
		for _, item := range rule.Items {
			seen[item] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return append([]string(nil), a.rules.DefaultIngredients...)
	}

	out := make([]string, 0, len(seen))
	for item := range seen {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Tags derives descriptive tags from the name and nutrition.
func (a *Annotator) Tags(name string, calories, protein, fat, carbs float64) []string {
	s := a.fold(name)
	th := a.rules.Thresholds
	tags := []string{}

	if containsAny(s, a.rules.SnackKeywords) {
		tags = append(tags, "camilan")
	}

	for _, m := range a.rules.CookingMethods {
		if strings.Contains(s, m.Keyword) {
			tags = append(tags, m.Tag)
		}
	}
	for _, g := range a.rules.Flavors {
		if containsAny(s, g.Keywords) {
			tags = append(tags, g.Tag)
		}
	}
	for _, g := range a.rules.Categories {
		if containsAny(s, g.Keywords) {
			tags = append(tags, g.Tag)
		}
	}

	if protein >= th.HighProtein {
		tags = append(tags, "protein tinggi")
	}
	switch {
	case fat < th.LowFat:
		tags = append(tags, "rendah lemak")
	case fat > th.HighFat:
		tags = append(tags, "tinggi lemak")
	}
	switch {
	case carbs < th.LowCarbs:
		tags = append(tags, "rendah karbo")
	case carbs > th.HighCarbs:
		tags = append(tags, "tinggi karbo")
	}
	switch {
	case calories < th.LowCalories:
		tags = append(tags, "rendah kalori")
	case calories > th.HighCalories:
		tags = append(tags, "tinggi kalori")
	}

	traditional := false
	for _, r := range a.rules.Regions {
		if strings.Contains(s, r.Keyword) {
			tags = append(tags, r.Tag, "tradisional")
			traditional = true
			break
		}
	}
	if !traditional && containsAny(s, a.rules.TraditionalDishes) {
		tags = append(tags, "tradisional")
	}

	return tags
}

// Fiber estimates fiber grams from carbohydrates, rounded to one decimal.
func (a *Annotator) Fiber(name string, carbs float64) float64 {
	f := carbs * 0.05
	if containsAny(a.fold(name), a.rules.HighFiberKeywords) {
		f *= 2
	}
	f = math.Min(math.Max(f, 0.5), carbs*0.4)
	return math.Round(f*10) / 10
}

// Annotate turns a raw row into a catalog entry.
func (a *Annotator) Annotate(r RawMeal) catalog.MealEntry {
	name := r.Name
	if strings.TrimSpace(name) == "" {
		name = UnknownName
	}

	return catalog.MealEntry{
		ID:          r.ID,
		Name:        name,
		Type:        a.MealType(name, r.Calories),
		Calories:    r.Calories,
		Protein:     r.Protein,
		Fat:         r.Fat,
		Carbs:       r.Carbs,
		Fiber:       a.Fiber(name, r.Carbs),
		Ingredients: a.Ingredients(name),
		Tags:        a.Tags(name, r.Calories, r.Protein, r.Fat, r.Carbs),
	}
}

// AnnotateAll annotates rows in order.
func (a *Annotator) AnnotateAll(rows []RawMeal) []catalog.MealEntry {
	out := make([]catalog.MealEntry, len(rows))
	for i := range rows {
		out[i] = a.Annotate(rows[i])
	}
	return out
}
