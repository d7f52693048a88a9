// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"time"

	"github.com/tomtom215/mealplan/internal/catalog"
)

// ScoredMeal is a ranked recommendation.
type ScoredMeal struct {
	// Meal is a copy of the catalog entry.
	Meal catalog.MealEntry `json:"meal"`

	// Score is the mean cosine similarity to the history, in [0, 1].
	Score float64 `json:"score"`

	// Position is the catalog position, used for tie-breaking.
	Position int `json:"-"`
}

// Stats contains engine counters and model information.
type Stats struct {
	RequestCount int64 `json:"request_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	ErrorCount   int64 `json:"error_count"`

	ModelVersion   int       `json:"model_version"`
	TrainedAt      time.Time `json:"trained_at"`
	MealCount      int       `json:"meal_count"`
	VocabularySize int       `json:"vocabulary_size"`
	FeatureDim     int       `json:"feature_dim"`
}

// TrainingStatus reports the trainer's state.
type TrainingStatus struct {
	// IsTraining indicates whether a run is in progress.
	IsTraining bool `json:"is_training"`

	// LastTrainedAt is when the last successful run finished.
	LastTrainedAt time.Time `json:"last_trained_at,omitempty"`

	// LastDuration is the wall time of the last successful run.
	LastDuration time.Duration `json:"last_duration"`

	// ModelVersion is the artifact version written by the last run.
	ModelVersion int `json:"model_version"`

	// MealCount is the catalog size of the last run.
	MealCount int `json:"meal_count"`

	// LastError contains the last run's error, if any.
	LastError string `json:"last_error,omitempty"`
}

// cloneScored copies a result slice, including the entries' list fields.
func cloneScored(in []ScoredMeal) []ScoredMeal {
	out := make([]ScoredMeal, len(in))
	for i := range in {
		out[i] = ScoredMeal{
			Meal:     in[i].Meal.Clone(),
			Score:    in[i].Score,
			Position: in[i].Position,
		}
	}
	return out
}
