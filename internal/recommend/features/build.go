// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package features turns a meal catalog into a dense feature matrix.
//
// Each row is the TF-IDF vector of the meal's ingredients and tags followed
// by the min-max scaled nutrition columns (calories, protein, fat, carbs,
// fiber). Rows align with catalog positions. The fitted vectorizer and scaler
// are kept so that inference rows are built with exactly the training
// parameters; they are never refit on query data.
package features

import (
	"errors"
	"fmt"

	"github.com/tomtom215/mealplan/internal/catalog"
)

var (
	// ErrEmptyCatalog is returned when there are no meals to fit on.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrEmptyVocabulary is returned when no document yields a term,
	// for example when every word is a stop word.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)

// FeatureBuildError reports a failed Build.
type FeatureBuildError struct {
	Stage string
	Err   error
}

func (e *FeatureBuildError) Error() string {
	return fmt.Sprintf("feature build failed at %s: %v", e.Stage, e.Err)
}

func (e *FeatureBuildError) Unwrap() error {
	return e.Err
}

// Options configures Build.
type Options struct {
	// NormalizeUnicode applies NFKC before tokenizing. Off by default.
	NormalizeUnicode bool
}

// Result is the output of Build.
type Result struct {
	Vectorizer *TfidfVectorizer
	Scaler     *MinMaxScaler
	Matrix     [][]float64
	Catalog    *catalog.Catalog
}

// Dim returns the feature width.
func (r *Result) Dim() int {
	return r.Vectorizer.Dim() + r.Scaler.Dim()
}

// Build fits the vectorizer and scaler on cat and returns the matrix.
func Build(cat *catalog.Catalog, opts Options) (*Result, error) {
	if cat.Len() == 0 {
		return nil, &FeatureBuildError{Stage: "catalog", Err: ErrEmptyCatalog}
	}

	entries := cat.Entries()
	docs := make([]string, len(entries))
	nutrition := make([][]float64, len(entries))
	for i := range entries {
		docs[i] = entries[i].CombinedText()
		n := entries[i].Nutrition()
		nutrition[i] = n[:]
	}

	vec := NewTfidfVectorizer(Tokenizer{NormalizeUnicode: opts.NormalizeUnicode})
	if err := vec.Fit(docs); err != nil {
		return nil, &FeatureBuildError{Stage: "tfidf", Err: err}
	}

	scaler := &MinMaxScaler{}
	if err := scaler.Fit(nutrition); err != nil {
		return nil, &FeatureBuildError{Stage: "scaler", Err: err}
	}

	matrix := make([][]float64, len(entries))
	for i := range entries {
		matrix[i] = Row(vec, scaler, &entries[i])
	}

	return &Result{
		Vectorizer: vec,
		Scaler:     scaler,
		Matrix:     matrix,
		Catalog:    cat,
	}, nil
}

// Row builds the feature row for one meal from fitted parameters.
func Row(vec *TfidfVectorizer, scaler *MinMaxScaler, m *catalog.MealEntry) []float64 {
	text := vec.Transform(m.CombinedText())
	n := m.Nutrition()
	num := scaler.Transform(n[:])

	row := make([]float64, 0, len(text)+len(num))
	row = append(row, text...)
	return append(row, num...)
}
