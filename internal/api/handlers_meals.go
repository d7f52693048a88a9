// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/validation"
)

// defaultMealPageSize is the page size of GET /api/v1/meals.
const defaultMealPageSize = 50

// ListMeals handles GET /api/v1/meals.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	req := ListMealsRequest{
		Type:   q.Get("type"),
		Limit:  getIntParam(r, "limit", defaultMealPageSize),
		Offset: getIntParam(r, "offset", 0),
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
	cat := engine.Catalog()
	if req.Type != "" && !cat.HasType(req.Type) {
		rw.DomainError(fmt.Errorf("%w: %q", recommend.ErrUnknownMealType, req.Type))
		return
	}

	matched := make([]catalog.MealEntry, 0, req.Limit)
	total := 0
	for pos := 0; pos < cat.Len(); pos++ {
		if req.Type != "" && cat.TypeAt(pos) != req.Type {
			continue
		}
		if total >= req.Offset && len(matched) < req.Limit {
			matched = append(matched, cat.At(pos))
		}
		total++
	}

	rw.SuccessWithMeta(matched, &APIMeta{
		ModelVersion: engine.Version(),
		Pagination: &PaginationMeta{
			Total:   int64(total),
			Count:   len(matched),
			Offset:  req.Offset,
			Limit:   req.Limit,
			HasMore: req.Offset+len(matched) < total,
		},
	})
}

// GetMeal handles GET /api/v1/meals/{id}.
func (h *Handler) GetMeal(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := mealIDParam(rw, r)
	if !ok {
		return
	}
	engine, err := h.deps.Engine.Get()
	if err != nil {
		rw.DomainError(err)
		return
	}
	meal, err := engine.Meal(id)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.SuccessWithMeta(meal, &APIMeta{ModelVersion: engine.Version()})
}

// SimilarMeals handles GET /api/v1/meals/{id}/similar. It ranks the
// catalog against a single-meal history, the same query the schedule
// repair step uses.
func (h *Handler) SimilarMeals(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := mealIDParam(rw, r)
	if !ok {
		return
	}
	req := RecommendRequest{
		History:  []int64{id},
		N:        getIntParam(r, "n", 0),
		MealType: r.URL.Query().Get("type"),
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
	if _, err := engine.Meal(id); err != nil {
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

// mealIDParam parses {id}, writing a 400 on failure.
func mealIDParam(rw *ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		rw.BadRequest("Invalid meal id")
		return 0, false
	}
	return id, true
}

// getIntParam extracts an integer query parameter with a default value.
// Unparseable values fall back to the default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
