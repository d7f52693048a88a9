// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package features

import (
	"fmt"
	"math"
)

// MinMaxScaler rescales each column to [0, 1] over the fitted range.
// Values outside the range are not clipped. A constant column maps to 0.
type MinMaxScaler struct {
	min []float64
	max []float64
}

// ScalerState is the persisted form of a fitted scaler.
type ScalerState struct {
	Min []float64
	Max []float64
}

// Fit learns per-column minimum and maximum. All rows must share a width.
func (s *MinMaxScaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return ErrEmptyCatalog
	}

	width := len(rows[0])
	lo := make([]float64, width)
	hi := make([]float64, width)
	for j := 0; j < width; j++ {
		lo[j] = math.Inf(1)
		hi[j] = math.Inf(-1)
	}

	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("scaler fit: row %d has %d columns, want %d", i, len(row), width)
		}
		for j, x := range row {
			lo[j] = math.Min(lo[j], x)
			hi[j] = math.Max(hi[j], x)
		}
	}

	s.min, s.max = lo, hi
	return nil
}

// Dim returns the number of columns.
func (s *MinMaxScaler) Dim() int {
	return len(s.min)
}

// Transform scales one row. Extra columns are ignored and missing ones read as 0.
func (s *MinMaxScaler) Transform(row []float64) []float64 {
	out := make([]float64, len(s.min))
	for j := range out {
		span := s.max[j] - s.min[j]
		if span == 0 || j >= len(row) {
			continue
		}
		out[j] = (row[j] - s.min[j]) / span
	}
	return out
}

// State returns the persisted form.
func (s *MinMaxScaler) State() ScalerState {
	return ScalerState{
		Min: append([]float64(nil), s.min...),
		Max: append([]float64(nil), s.max...),
	}
}

// ScalerFromState restores a fitted scaler.
func ScalerFromState(st ScalerState) (*MinMaxScaler, error) {
	if len(st.Min) != len(st.Max) {
		return nil, fmt.Errorf("scaler state: %d minimums but %d maximums", len(st.Min), len(st.Max))
	}
	return &MinMaxScaler{
		min: append([]float64(nil), st.Min...),
		max: append([]float64(nil), st.Max...),
	}, nil
}
