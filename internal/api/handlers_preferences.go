// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/validation"
)

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}

	p, err := h.deps.Preferences.Get(r.Context(), userID)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(p)
}

// PutPreferences handles PUT /api/v1/users/{userID}/preferences.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}

	var req PreferencesRequest
	if err := decodeBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	p, err := h.deps.Preferences.Put(r.Context(), &preferences.Preferences{
		UserID:      userID,
		History:     req.History,
		MaxCalories: req.MaxCalories,
	})
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(p)
}

// DeletePreferences handles DELETE /api/v1/users/{userID}/preferences.
func (h *Handler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}
	if err := h.deps.Preferences.Delete(r.Context(), userID); err != nil {
		rw.DomainError(err)
		return
	}
	rw.NoContent()
}

// AppendHistory handles POST /api/v1/users/{userID}/history.
func (h *Handler) AppendHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, ok := h.userIDParam(rw, r)
	if !ok {
		return
	}

	var req HistoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	p, err := h.deps.Preferences.AppendHistory(r.Context(), userID, req.MealIDs...)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(p)
}

// userIDParam validates {userID} and checks that preferences are enabled.
func (h *Handler) userIDParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	if h.deps.Preferences == nil {
		rw.NotEnabled("Preferences")
		return "", false
	}
	userID := chi.URLParam(r, "userID")
	if verr := validation.ValidateVar("user_id", userID, "required,userid"); verr != nil {
		rw.Validation(verr)
		return "", false
	}
	return userID, true
}
