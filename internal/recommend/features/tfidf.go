// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package features

import (
	"fmt"
	"math"
	"sort"
)

// TfidfVectorizer maps documents to L2-normalized TF-IDF rows.
//
// Weights are raw term counts times the smoothed inverse document frequency
// ln((1+n)/(1+df)) + 1. The vocabulary is sorted lexically and fixed by Fit.
type TfidfVectorizer struct {
	tokenizer Tokenizer
	vocab     []string
	index     map[string]int
	idf       []float64
}

// VectorizerState is the persisted form of a fitted vectorizer.
type VectorizerState struct {
	Vocabulary       []string
	IDF              []float64
	NormalizeUnicode bool
	KeepStopWords    bool
}

// NewTfidfVectorizer returns an unfitted vectorizer.
func NewTfidfVectorizer(tok Tokenizer) *TfidfVectorizer {
	return &TfidfVectorizer{tokenizer: tok}
}

// Fit learns the vocabulary and idf weights from docs.
func (v *TfidfVectorizer) Fit(docs []string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenizer.Tokens(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.setVocabulary(vocab, idf)
	return nil
}

func (v *TfidfVectorizer) setVocabulary(vocab []string, idf []float64) {
	v.vocab = vocab
	v.idf = idf
	v.index = make(map[string]int, len(vocab))
	for i, term := range vocab {
		v.index[term] = i
	}
}

// Fitted reports whether the vocabulary is set.
func (v *TfidfVectorizer) Fitted() bool {
	return len(v.vocab) > 0
}

// Dim returns the vocabulary size.
func (v *TfidfVectorizer) Dim() int {
	return len(v.vocab)
}

// Vocabulary returns a copy of the sorted vocabulary.
func (v *TfidfVectorizer) Vocabulary() []string {
	return append([]string(nil), v.vocab...)
}

// IDF returns the weight for term and whether it is in the vocabulary.
func (v *TfidfVectorizer) IDF(term string) (float64, bool) {
	i, ok := v.index[term]
	if !ok {
		return 0, false
	}
	return v.idf[i], true
}

// Transform maps one document onto the fitted vocabulary.
// Unknown terms are ignored; a document with no known terms is all zeros.
func (v *TfidfVectorizer) Transform(doc string) []float64 {
	row := make([]float64, len(v.vocab))
	for _, tok := range v.tokenizer.Tokens(doc) {
		if i, ok := v.index[tok]; ok {
			row[i]++
		}
	}

	var sum float64
	for i := range row {
		row[i] *= v.idf[i]
		sum += row[i] * row[i]
	}
	if sum > 0 {
		norm := math.Sqrt(sum)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}

// State returns the persisted form.
func (v *TfidfVectorizer) State() VectorizerState {
	return VectorizerState{
		Vocabulary:       append([]string(nil), v.vocab...),
		IDF:              append([]float64(nil), v.idf...),
		NormalizeUnicode: v.tokenizer.NormalizeUnicode,
		KeepStopWords:    v.tokenizer.KeepStopWords,
	}
}

// VectorizerFromState restores a fitted vectorizer.
func VectorizerFromState(s VectorizerState) (*TfidfVectorizer, error) { //nolint:gocritic // hugeParam: decoded once per load
	if len(s.Vocabulary) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if len(s.Vocabulary) != len(s.IDF) {
		return nil, fmt.Errorf("vectorizer state: %d terms but %d idf weights", len(s.Vocabulary), len(s.IDF))
	}

	v := NewTfidfVectorizer(Tokenizer{
		NormalizeUnicode: s.NormalizeUnicode,
		KeepStopWords:    s.KeepStopWords,
	})
	v.setVocabulary(append([]string(nil), s.Vocabulary...), append([]float64(nil), s.IDF...))
	return v, nil
}
