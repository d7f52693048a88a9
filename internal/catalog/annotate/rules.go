// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package annotate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// KeywordItems maps a name keyword to the ingredient items it implies.
type KeywordItems struct {
	Keyword string   `koanf:"keyword"`
	Items   []string `koanf:"items"`
}

// KeywordTag maps a name keyword to a tag.
type KeywordTag struct {
	Keyword string `koanf:"keyword"`
	Tag     string `koanf:"tag"`
}

// TagGroup adds Tag when any of Keywords occurs in the name.
type TagGroup struct {
	Tag      string   `koanf:"tag"`
	Keywords []string `koanf:"keywords"`
}

// Thresholds holds the nutrition cut-offs used for tagging and typing.
type Thresholds struct {
	BreakfastMaxCalories float64 `koanf:"breakfast_max_calories"`
	DinnerMinCalories    float64 `koanf:"dinner_min_calories"`
	HighProtein          float64 `koanf:"high_protein"`
	LowFat               float64 `koanf:"low_fat"`
	HighFat              float64 `koanf:"high_fat"`
	LowCarbs             float64 `koanf:"low_carbs"`
	HighCarbs            float64 `koanf:"high_carbs"`
	LowCalories          float64 `koanf:"low_calories"`
	HighCalories         float64 `koanf:"high_calories"`
}

// Rules is the keyword table driving the annotator. Lunch has no keyword
// list: it is whatever is neither breakfast nor dinner.
//
// Ordered slices are used wherever match order is observable in the output
// (cooking methods, regional indicators, tag groups).
type Rules struct {
	BreakfastKeywords  []string       `koanf:"breakfast_keywords"`
	DinnerKeywords     []string       `koanf:"dinner_keywords"`
	Ingredients        []KeywordItems `koanf:"ingredients"`
	DefaultIngredients []string       `koanf:"default_ingredients"`
	SnackKeywords      []string       `koanf:"snack_keywords"`
	CookingMethods     []KeywordTag   `koanf:"cooking_methods"`
	Flavors            []TagGroup     `koanf:"flavors"`
	Categories         []TagGroup     `koanf:"categories"`
	Regions            []KeywordTag   `koanf:"regions"`
	TraditionalDishes  []string       `koanf:"traditional_dishes"`
	HighFiberKeywords  []string       `koanf:"high_fiber_keywords"`
	Thresholds         Thresholds     `koanf:"thresholds"`
	NormalizeUnicode   bool           `koanf:"normalize_unicode"`
}

// ErrInvalidRules is returned when a rules table cannot be used.
var ErrInvalidRules = errors.New("invalid annotator rules")

// DefaultRules returns the built-in Indonesian keyword table.
func DefaultRules() Rules {
	bumbu := func(s string) KeywordItems { return KeywordItems{Keyword: s, Items: []string{s, "bumbu"}} }
	fruit := func(s string) KeywordItems { return KeywordItems{Keyword: s, Items: []string{"buah"}} }
	self := func(s string) KeywordItems { return KeywordItems{Keyword: s, Items: []string{s}} }

	return Rules{
		BreakfastKeywords: []string{
			"sarapan", "bubur", "sereal", "roti", "pancake", "waffle", "telur",
			"oatmeal", "yogurt", "smoothie", "buah", "jus", "susu", "kopi", "teh",
		},
		DinnerKeywords: []string{
			"steak", "rendang", "gulai", "kambing", "bebek", "sop buntut",
			"iga bakar", "martabak", "pasta", "lasagna", "pizza", "kari",
		},
		Ingredients: []KeywordItems{
			fruit("apel"), fruit("pisang"), fruit("jeruk"), fruit("mangga"),
			fruit("anggur"), fruit("pepaya"), fruit("semangka"), fruit("melon"),
			fruit("nanas"), fruit("stroberi"), fruit("buah"), fruit("alpukat"),

			bumbu("ayam"), {Keyword: "sapi", Items: []string{"daging sapi", "bumbu"}}, bumbu("babi"),
			bumbu("ikan"), bumbu("udang"), bumbu("telur"), bumbu("bebek"), bumbu("kambing"),
			bumbu("burung"), bumbu("domba"), bumbu("angsa"), bumbu("belibing"),
			bumbu("kerang"), bumbu("cumi"), bumbu("kepiting"),

			{Keyword: "sayur", Items: []string{"sayuran"}},
			self("kangkung"), self("bayam"), self("wortel"), self("brokoli"),

			{Keyword: "nasi", Items: []string{"beras"}},
			{Keyword: "mie", Items: []string{"tepung terigu"}},
			{Keyword: "roti", Items: []string{"tepung terigu"}},
			self("kentang"), self("jagung"),
		},
		DefaultIngredients: []string{"bahan utama", "bumbu"},
		SnackKeywords:      []string{"kue", "biskuit", "keripik", "kerupuk", "camilan"},
		CookingMethods: []KeywordTag{
			{"goreng", "goreng"}, {"bakar", "bakar"}, {"rebus", "rebus"}, {"kukus", "kukus"},
			{"panggang", "panggang"}, {"tumis", "tumis"}, {"kuah", "berkuah"},
		},
		Flavors: []TagGroup{
			{Tag: "pedas", Keywords: []string{"pedas", "rica", "balado"}},
			{Tag: "manis", Keywords: []string{"manis"}},
			{Tag: "asin", Keywords: []string{"asin"}},
			{Tag: "asam", Keywords: []string{"asam"}},
		},
		Categories: []TagGroup{
			{Tag: "daging", Keywords: []string{"ayam", "sapi", "kambing", "daging"}},
			{Tag: "seafood", Keywords: []string{"ikan", "udang", "cumi", "kerang", "kepiting", "seafood"}},
			{Tag: "nabati", Keywords: []string{"tahu", "tempe", "kacang", "kedelai"}},
			{Tag: "sayuran", Keywords: []string{"sayur", "kangkung", "bayam", "wortel", "brokoli"}},
		},
		Regions: []KeywordTag{
			{"padang", "padang"}, {"jawa", "jawa"}, {"sunda", "sunda"}, {"bali", "bali"},
			{"aceh", "aceh"}, {"manado", "manado"}, {"minang", "minang"},
		},
		TraditionalDishes: []string{
			"nasi goreng", "soto", "rendang", "sate", "gado-gado", "pecel", "rawon",
			"bakso", "mie goreng", "gudeg", "opor", "ketoprak", "pempek",
		},
		HighFiberKeywords: []string{
			"sayur", "kacang", "biji", "buah", "sereal", "oat", "brokoli",
			"kangkung", "bayam", "wortel", "apel", "pisang", "pepaya",
		},
		Thresholds: Thresholds{
			BreakfastMaxCalories: 300,
			DinnerMinCalories:    600,
			HighProtein:          15,
			LowFat:               5,
			HighFat:              15,
			LowCarbs:             10,
			HighCarbs:            30,
			LowCalories:          200,
			HighCalories:         400,
		},
	}
}

// Validate checks the table for entries that would never match.
func (r *Rules) Validate() error {
	if len(r.DefaultIngredients) == 0 {
		return fmt.Errorf("%w: default_ingredients must not be empty", ErrInvalidRules)
	}
	for i, in := range r.Ingredients {
		if in.Keyword == "" || len(in.Items) == 0 {
			return fmt.Errorf("%w: ingredients[%d] needs keyword and items", ErrInvalidRules, i)
		}
	}
	for i, m := range r.CookingMethods {
		if m.Keyword == "" || m.Tag == "" {
			return fmt.Errorf("%w: cooking_methods[%d] needs keyword and tag", ErrInvalidRules, i)
		}
	}
	for i, m := range r.Regions {
		if m.Keyword == "" || m.Tag == "" {
			return fmt.Errorf("%w: regions[%d] needs keyword and tag", ErrInvalidRules, i)
		}
	}
	return nil
}

// LoadRules reads a YAML rules file over the defaults.
//
// Each top-level key present in the file replaces the default value for
// that key wholesale; absent keys keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Rules{}, fmt.Errorf("load rules %s: %w", path, err)
	}

	var unknown []string
	for key := range k.Raw() {
		if !knownRuleKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Rules{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidRules, path, strings.Join(unknown, ", "))
	}

	steps := []error{
		overlay(k, "breakfast_keywords", &rules.BreakfastKeywords),
		overlay(k, "dinner_keywords", &rules.DinnerKeywords),
		overlay(k, "ingredients", &rules.Ingredients),
		overlay(k, "default_ingredients", &rules.DefaultIngredients),
		overlay(k, "snack_keywords", &rules.SnackKeywords),
		overlay(k, "cooking_methods", &rules.CookingMethods),
		overlay(k, "flavors", &rules.Flavors),
		overlay(k, "categories", &rules.Categories),
		overlay(k, "regions", &rules.Regions),
		overlay(k, "traditional_dishes", &rules.TraditionalDishes),
		overlay(k, "high_fiber_keywords", &rules.HighFiberKeywords),
		overlay(k, "normalize_unicode", &rules.NormalizeUnicode),
	}
	if err := errors.Join(steps...); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", path, err)
	}

	// Thresholds merge per field.
	if k.Exists("thresholds") {
		if err := k.Unmarshal("thresholds", &rules.Thresholds); err != nil {
			return Rules{}, fmt.Errorf("parse rules %s: thresholds: %w", path, err)
		}
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// knownRuleKeys are the top-level keys a rules file may set.
var knownRuleKeys = map[string]bool{
	"breakfast_keywords": true, "dinner_keywords": true, "ingredients": true,
	"default_ingredients": true, "snack_keywords": true, "cooking_methods": true,
	"flavors": true, "categories": true, "regions": true, "traditional_dishes": true,
	"high_fiber_keywords": true, "normalize_unicode": true, "thresholds": true,
}

// overlay replaces *dst with the value at key when the key is present.
func overlay[T any](k *koanf.Koanf, key string, dst *T) error {
	if !k.Exists(key) {
		return nil
	}
	var v T
	if err := k.Unmarshal(key, &v); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
