// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import "errors"

var (
	// ErrUnknownMealType is returned when a meal-type filter names a label
	// that no catalog entry carries.
	ErrUnknownMealType = errors.New("unknown meal type")

	// ErrInvalidCount is returned when the requested result count is not positive.
	ErrInvalidCount = errors.New("result count must be positive")

	// ErrNotReady is returned when no trained model is loaded.
	ErrNotReady = errors.New("recommendation engine not ready")

	// ErrArtifactMismatch is returned when loaded artifacts disagree on
	// version or shape.
	ErrArtifactMismatch = errors.New("artifact set mismatch")

	// ErrTrainingInProgress is returned when a training run is already active.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrTrainingThrottled is returned when an on-demand training trigger
	// arrives sooner than the configured minimum interval.
	ErrTrainingThrottled = errors.New("training trigger throttled")
)
