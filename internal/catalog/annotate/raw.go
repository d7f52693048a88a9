// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package annotate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/mealplan/internal/catalog"
)

// rawColumns are required in the raw nutrition table.
var rawColumns = []string{"id", "calories", "proteins", "fat", "carbohydrate", "name"}

// ReadRaw parses the raw nutrition CSV. Blank numeric cells read as 0.
func ReadRaw(r io.Reader) ([]RawMeal, error) {
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

	var missing []string
	for _, col := range rawColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", catalog.ErrMissingColumn, strings.Join(missing, ", "))
	}

	var rows []RawMeal
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

		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		id, err := strconv.ParseFloat(get("id"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parse id: %w", line, err)
		}
		row := RawMeal{ID: int64(id), Name: get("name")}

		for col, dst := range map[string]*float64{
			"calories":     &row.Calories,
			"proteins":     &row.Protein,
			"fat":          &row.Fat,
			"carbohydrate": &row.Carbs,
		} {
			v, err := parseNumber(get(col))
			if err != nil {
				return nil, fmt.Errorf("line %d: parse %s: %w", line, col, err)
			}
			*dst = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// AnnotateRaw reads a raw nutrition table and returns the enriched catalog.
func (a *Annotator) AnnotateRaw(r io.Reader) (*catalog.Catalog, error) {
	rows, err := ReadRaw(r)
	if err != nil {
		return nil, err
	}
	return catalog.NewCatalog(a.AnnotateAll(rows))
}

// AnnotateFile runs AnnotateRaw over the file at path.
func (a *Annotator) AnnotateFile(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open raw table: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	return a.AnnotateRaw(f)
}
