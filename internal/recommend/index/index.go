// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package index answers mean-cosine similarity queries over a feature matrix.
//
// A SimilarityIndex is immutable after New and safe for concurrent reads.
// Row norms are computed once at construction.
package index

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/mealplan/internal/catalog"
)

// ErrShapeMismatch is returned when the matrix does not fit the catalog.
var ErrShapeMismatch = errors.New("feature matrix shape mismatch")

// SimilarityIndex holds a feature matrix aligned with a catalog.
type SimilarityIndex struct {
	matrix [][]float64
	norms  []float64
	cat    *catalog.Catalog
}

// New builds an index. The matrix must have one row per catalog position
// and every row must have the same width.
func New(matrix [][]float64, cat *catalog.Catalog) (*SimilarityIndex, error) {
	if len(matrix) != cat.Len() {
		return nil, fmt.Errorf("%w: %d rows for %d meals", ErrShapeMismatch, len(matrix), cat.Len())
	}

	norms := make([]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != len(matrix[0]) {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrShapeMismatch, i, len(row), len(matrix[0]))
		}
		norms[i] = math.Sqrt(dot(row, row))
	}

	return &SimilarityIndex{matrix: matrix, norms: norms, cat: cat}, nil
}

// Len returns the number of rows.
func (x *SimilarityIndex) Len() int {
	return len(x.matrix)
}

// Catalog returns the aligned catalog.
func (x *SimilarityIndex) Catalog() *catalog.Catalog {
	return x.cat
}

// Score returns, for every catalog row, the mean cosine similarity to the
// query rows. Out-of-range query rows are ignored; with no valid query rows
// every score is 0. Similarity involving a zero-norm row is 0.
func (x *SimilarityIndex) Score(rows []int) []float64 {
	scores := make([]float64, len(x.matrix))

	valid := make([]int, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < len(x.matrix) {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return scores
	}

	for i := range x.matrix {
		var sum float64
		for _, q := range valid {
			sum += x.cosine(q, i)
		}
		scores[i] = sum / float64(len(valid))
	}
	return scores
}

// Similarity returns the cosine similarity between rows a and b.
func (x *SimilarityIndex) Similarity(a, b int) float64 {
	if a < 0 || a >= len(x.matrix) || b < 0 || b >= len(x.matrix) {
		return 0
	}
	return x.cosine(a, b)
}

func (x *SimilarityIndex) cosine(a, b int) float64 {
	if x.norms[a] == 0 || x.norms[b] == 0 {
		return 0
	}
	return dot(x.matrix[a], x.matrix[b]) / (x.norms[a] * x.norms[b])
}

// FilterByType returns a mask of positions whose meal type equals label.
// An empty label selects every position.
func (x *SimilarityIndex) FilterByType(label string) []bool {
	mask := make([]bool, len(x.matrix))
	for i := range mask {
		mask[i] = label == "" || x.cat.TypeAt(i) == label
	}
	return mask
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
