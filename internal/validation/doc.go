// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata, so request types should be validated through ValidateStruct
// rather than a fresh validator.New().
//
// Field names in messages are taken from the json tag, so errors refer to
// the names clients actually send:
//
//	type RecommendRequest struct {
//	    History []int64 `json:"history" validate:"max=500,dive,gt=0"`
//	    N       int     `json:"n" validate:"omitempty,min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Custom tags:
//   - userid: 1-64 characters from [A-Za-z0-9_.@-]
//   - mealtype: non-blank label without leading or trailing whitespace
package validation
