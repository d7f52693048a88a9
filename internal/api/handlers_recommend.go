// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/validation"
)

// RecommendResponse is the payload of POST /api/v1/recommendations.
type RecommendResponse struct {
	Recommendations []recommend.ScoredMeal `json:"recommendations"`
	Count           int                    `json:"count"`
	MealType        string                 `json:"meal_type,omitempty"`
	ModelVersion    int                    `json:"model_version"`
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	engine, err := h.deps.Engine.Get()
	if err != nil {
		rw.DomainError(err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	resp, err := h.recommend(ctx, engine, &req)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.SuccessWithMeta(resp, &APIMeta{ModelVersion: resp.ModelVersion})
}

// recommend applies the N default and ceiling, then queries engine.
func (h *Handler) recommend(ctx context.Context, engine *recommend.Engine, req *RecommendRequest) (*RecommendResponse, error) {
	n := req.N
	if n == 0 {
		n = h.limits.DefaultN
	}
	if n > h.limits.MaxN {
		return nil, fmt.Errorf("%w: n must be at most %d", recommend.ErrInvalidCount, h.limits.MaxN)
	}

	scored, err := engine.RecommendScored(ctx, req.History, n, req.MealType)
	if err != nil {
		return nil, err
	}
	return &RecommendResponse{
		Recommendations: scored,
		Count:           len(scored),
		MealType:        req.MealType,
		ModelVersion:    engine.Version(),
	}, nil
}
