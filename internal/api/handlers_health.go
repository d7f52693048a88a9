// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status        string    `json:"status"` // "healthy" or "degraded"
	Ready         bool      `json:"ready"`
	ModelVersion  int       `json:"model_version"`
	MealCount     int       `json:"meal_count"`
	TrainedAt     time.Time `json:"trained_at,omitempty"`
	Database      string    `json:"database"` // "ok", "error" or "disabled"
	Preferences   string    `json:"preferences"`
	Training      string    `json:"training"` // "idle", "running" or "disabled"
	LastTrainErr  string    `json:"last_training_error,omitempty"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Database:      "disabled",
		Preferences:   "disabled",
		Training:      "disabled",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	if engine, err := h.deps.Engine.Get(); err == nil {
		stats := engine.Stats()
		status.Ready = true
		status.ModelVersion = stats.ModelVersion
		status.MealCount = stats.MealCount
		status.TrainedAt = stats.TrainedAt
	} else {
		status.Status = "degraded"
	}

	if h.deps.Schedules != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.deps.Schedules.Ping(ctx); err != nil {
			status.Database = "error"
			status.Status = "degraded"
		} else {
			status.Database = "ok"
		}
	}
	if h.deps.Preferences != nil {
		status.Preferences = "ok"
	}
	if h.deps.Training != nil {
		ts := h.deps.Training.Status()
		status.Training = "idle"
		if ts.IsTraining {
			status.Training = "running"
		}
		status.LastTrainErr = ts.LastError
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	engine, err := h.deps.Engine.Get()
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(map[string]interface{}{"status": "ready", "model_version": engine.Version()})
}
