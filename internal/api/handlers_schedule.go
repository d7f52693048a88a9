// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/mealplan/internal/database"
	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/report"
	"github.com/tomtom215/mealplan/internal/schedule"
	"github.com/tomtom215/mealplan/internal/validation"
)

// ScheduleResponse is the payload of POST /api/v1/schedules.
type ScheduleResponse struct {
	Schedule         *schedule.Schedule `json:"schedule"`
	Persisted        bool               `json:"persisted"`
	UnavailableSlots int                `json:"unavailable_slots"`
	OverBudgetDays   int                `json:"over_budget_days"`
}

// CreateSchedule handles POST /api/v1/schedules.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ScheduleRequest
	if err := decodeBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	resp, err := h.generateSchedule(ctx, &req)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Created(resp, nil)
}

// generateSchedule resolves defaults and stored preferences, generates,
// and persists when a schedule store is configured. A storage failure is
// logged and reported through Persisted rather than failing the request.
func (h *Handler) generateSchedule(ctx context.Context, req *ScheduleRequest) (*ScheduleResponse, error) {
	days := req.Days
	if days == 0 {
		days = h.limits.DefaultDays
	}
	if days > h.limits.MaxDays {
		return nil, fmt.Errorf("%w: days must be at most %d", schedule.ErrInvalidDays, h.limits.MaxDays)
	}

	prefs := schedule.Preferences{History: req.History, MaxCalories: req.MaxCalories}
	if req.UserID != "" && h.deps.Preferences != nil {
		stored, err := h.deps.Preferences.Get(ctx, req.UserID)
		switch {
		case err == nil:
			if len(prefs.History) == 0 {
				prefs.History = stored.History
			}
			if prefs.MaxCalories == 0 {
				prefs.MaxCalories = stored.MaxCalories
			}
		case errors.Is(err, preferences.ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}

	s, err := h.deps.Generator.GenerateSchedule(ctx, prefs, days)
	if err != nil {
		return nil, err
	}

	resp := &ScheduleResponse{
		Schedule:         s,
		UnavailableSlots: s.UnavailableSlots(),
		OverBudgetDays:   s.OverBudgetDays(),
	}
	if h.deps.Schedules != nil {
		if err := h.deps.Schedules.SaveSchedule(ctx, s); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("schedule_id", s.ID).Msg("failed to persist schedule")
		} else {
			resp.Persisted = true
		}
	}
	return resp, nil
}

// ListSchedules handles GET /api/v1/schedules.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Schedules == nil {
		rw.NotEnabled("Schedule storage")
		return
	}

	limit := getIntParam(r, "limit", database.DefaultListLimit)
	if verr := validation.ValidateVar("limit", limit, "min=1,max=500"); verr != nil {
		rw.Validation(verr)
		return
	}

	summaries, err := h.deps.Schedules.ListSchedules(r.Context(), limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.SuccessWithPagination(summaries, &PaginationMeta{
		Total: int64(len(summaries)),
		Count: len(summaries),
		Limit: limit,
	})
}

// GetSchedule handles GET /api/v1/schedules/{id}.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	s, ok := h.loadSchedule(rw, r)
	if !ok {
		return
	}
	rw.Success(s)
}

// ScheduleReport handles GET /api/v1/schedules/{id}/report. The default
// format is html.
func (h *Handler) ScheduleReport(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if verr := validation.ValidateVar("format", format, "oneof=html text"); verr != nil {
		rw.Validation(verr)
		return
	}

	s, ok := h.loadSchedule(rw, r)
	if !ok {
		return
	}

	var err error
	if format == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = report.WriteText(w, s)
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = report.WriteHTML(w, s)
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("schedule_id", s.ID).Msg("failed to render report")
	}
}

// DeleteSchedule handles DELETE /api/v1/schedules/{id}.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Schedules == nil {
		rw.NotEnabled("Schedule storage")
		return
	}
	if err := h.deps.Schedules.DeleteSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.NoContent()
}

func (h *Handler) loadSchedule(rw *ResponseWriter, r *http.Request) (*schedule.Schedule, bool) {
	if h.deps.Schedules == nil {
		rw.NotEnabled("Schedule storage")
		return nil, false
	}
	s, err := h.deps.Schedules.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("Schedule not found")
	default:
		rw.DatabaseError(err)
	}
	return nil, false
}
