// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing required column")

// csvColumns is the enriched catalog layout, in write order.
var csvColumns = []string{"id", "name", "type", "calories", "protein", "fat", "carbs", "fiber", "ingredients", "tags"}

// LoadCSVFile reads an enriched catalog CSV from path.
func LoadCSVFile(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	return LoadCSV(f)
}

// LoadCSV reads an enriched catalog table.
//
// The header row names the columns; extra columns are ignored. The
// ingredients and tags columns hold list encodings accepted by ParseList.
func LoadCSV(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var entries []MealEntry
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		entry, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	return NewCatalog(entries)
}

func parseRecord(rec []string, idx map[string]int) (MealEntry, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	id, err := strconv.ParseInt(field("id"), 10, 64)
	if err != nil {
		return MealEntry{}, fmt.Errorf("parse id: %w", err)
	}

	entry := MealEntry{
		ID:   id,
		Name: field("name"),
		Type: field("type"),
	}

	targets := []*float64{&entry.Calories, &entry.Protein, &entry.Fat, &entry.Carbs, &entry.Fiber}
	for i, col := range NutritionColumns {
		v, err := parseFloat(field(col))
		if err != nil {
			return MealEntry{}, fmt.Errorf("parse %s: %w", col, err)
		}
		*targets[i] = v
	}

	if entry.Ingredients, err = ParseList(field("ingredients")); err != nil {
		return MealEntry{}, fmt.Errorf("parse ingredients: %w", err)
	}
	if entry.Tags, err = ParseList(field("tags")); err != nil {
		return MealEntry{}, fmt.Errorf("parse tags: %w", err)
	}

	return entry, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseList decodes a list column. JSON arrays are accepted directly;
// single-quoted lists (['a', 'b']) are accepted by swapping quote style.
// An empty cell decodes to an empty list.
func ParseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}

	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		out = nil
		if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &out); err != nil {
			return nil, fmt.Errorf("invalid list %q: %w", s, err)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// FormatList encodes a list column as a JSON array.
func FormatList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// WriteCSV writes the catalog in the enriched table layout.
func WriteCSV(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range c.entries {
		e := &c.entries[i]
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			e.Type,
			strconv.FormatFloat(e.Calories, 'f', -1, 64),
			strconv.FormatFloat(e.Protein, 'f', -1, 64),
			strconv.FormatFloat(e.Fat, 'f', -1, 64),
			strconv.FormatFloat(e.Carbs, 'f', -1, 64),
			strconv.FormatFloat(e.Fiber, 'f', -1, 64),
			FormatList(e.Ingredients),
			FormatList(e.Tags),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write meal %d: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// LoadJSON reads a catalog encoded as a JSON array of meals.
func LoadJSON(r io.Reader) (*Catalog, error) {
	var entries []MealEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return NewCatalog(entries)
}

// WriteJSON writes the catalog as an indented JSON array.
func WriteJSON(w io.Writer, c *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// LoadFile reads a catalog from path, choosing the codec by format.
// An empty format is inferred from the file extension.
func LoadFile(path, format string) (*Catalog, error) {
	if format == "" {
		format = "csv"
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			format = "json"
		}
	}

	switch format {
	case "csv":
		return LoadCSVFile(path)
	case "json":
		f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = f.Close() }() //nolint:errcheck // read-only file
		return LoadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}
