// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"net/http"

	"github.com/tomtom215/mealplan/internal/logging"
)

// TriggerTraining handles POST /api/v1/admin/train.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Training == nil {
		rw.NotEnabled("Training")
		return
	}

	if err := h.deps.Training.Trigger(); err != nil {
		rw.DomainError(err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("training triggered via API")
	rw.Accepted(map[string]interface{}{"queued": true})
}

// TrainingStatus handles GET /api/v1/admin/train.
func (h *Handler) TrainingStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Training == nil {
		rw.NotEnabled("Training")
		return
	}
	rw.Success(h.deps.Training.Status())
}

// ListModels handles GET /api/v1/admin/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Models == nil {
		rw.NotEnabled("Model storage")
		return
	}

	models, err := h.deps.Models.ListModels(r.Context())
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.SuccessWithPagination(models, &PaginationMeta{
		Total: int64(len(models)),
		Count: len(models),
		Limit: len(models),
	})
}

// EngineStats handles GET /api/v1/admin/stats.
func (h *Handler) EngineStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	engine, err := h.deps.Engine.Get()
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.SuccessWithMeta(engine.Stats(), &APIMeta{ModelVersion: engine.Version()})
}

// Performance handles GET /api/v1/admin/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.Monitor == nil {
		rw.NotEnabled("Performance monitoring")
		return
	}
	rw.Success(map[string]interface{}{
		"endpoints": h.deps.Monitor.GetStats(),
		"recent":    h.deps.Monitor.GetRecentMetrics(getIntParam(r, "recent", 20)),
	})
}

// ClearCache handles DELETE /api/v1/admin/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	engine, err := h.deps.Engine.Get()
	if err != nil {
		rw.DomainError(err)
		return
	}
	engine.ClearCache()
	rw.NoContent()
}
