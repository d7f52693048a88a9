// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

// RecommendRequest is the body of POST /api/v1/recommendations and the
// arguments of the recommend_meals tool. N = 0 uses the configured default.
type RecommendRequest struct {
	History  []int64 `json:"history" validate:"max=1000"`
	N        int     `json:"n" validate:"omitempty,min=1"`
	MealType string  `json:"meal_type" validate:"omitempty,mealtype"`
}

// ScheduleRequest is the body of POST /api/v1/schedules and the arguments
// of the generate_schedule tool. When UserID is set, stored preferences
// fill an empty history and a zero calorie ceiling. Days = 0 uses the
// configured default.
type ScheduleRequest struct {
	UserID      string  `json:"user_id" validate:"omitempty,userid"`
	History     []int64 `json:"history" validate:"max=1000"`
	MaxCalories float64 `json:"max_calories" validate:"gte=0,lte=100000"`
	Days        int     `json:"days" validate:"omitempty,min=1"`
}

// ListMealsRequest holds the query of GET /api/v1/meals.
type ListMealsRequest struct {
	Type   string `json:"type" validate:"omitempty,mealtype"`
	Limit  int    `json:"limit" validate:"min=1,max=500"`
	Offset int    `json:"offset" validate:"min=0"`
}

// PreferencesRequest is the body of PUT /api/v1/users/{userID}/preferences.
type PreferencesRequest struct {
	History     []int64 `json:"history" validate:"max=1000"`
	MaxCalories float64 `json:"max_calories" validate:"gte=0,lte=100000"`
}

// HistoryRequest is the body of POST /api/v1/users/{userID}/history.
type HistoryRequest struct {
	MealIDs []int64 `json:"meal_ids" validate:"required,min=1,max=100"`
}
