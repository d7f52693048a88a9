// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealplan/internal/config"
	"github.com/tomtom215/mealplan/internal/database"
	"github.com/tomtom215/mealplan/internal/middleware"
	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
	"github.com/tomtom215/mealplan/internal/schedule"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ScheduleGenerator builds schedules. *schedule.Generator implements it.
type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, prefs schedule.Preferences, days int) (*schedule.Schedule, error)
}

// ScheduleStore persists generated schedules. *database.DB implements it.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, s *schedule.Schedule) error
	GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
	ListSchedules(ctx context.Context, limit int) ([]database.ScheduleSummary, error)
	DeleteSchedule(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// PreferenceStore keeps per-user preferences. *preferences.Store implements it.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*preferences.Preferences, error)
	Put(ctx context.Context, p *preferences.Preferences) (*preferences.Preferences, error)
	AppendHistory(ctx context.Context, userID string, ids ...int64) (*preferences.Preferences, error)
	Delete(ctx context.Context, userID string) error
}

// TrainingController queues retrains. The supervisor's training service
// implements it.
type TrainingController interface {
	// Trigger queues a run. It returns recommend.ErrTrainingThrottled or
	// recommend.ErrTrainingInProgress when the request is refused.
	Trigger() error
	Status() recommend.TrainingStatus
}

// ModelLister lists stored artifacts. *storage.Store implements it.
type ModelLister interface {
	ListModels(ctx context.Context) ([]storage.ArtifactMetadata, error)
}

// Limits bounds request parameters.
type Limits struct {
	DefaultN       int
	MaxN           int
	DefaultDays    int
	MaxDays        int
	RequestTimeout time.Duration
}

// LimitsFromConfig derives Limits from the loaded configuration.
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		DefaultN:       cfg.Recommend.DefaultN,
		MaxN:           cfg.Recommend.MaxN,
		DefaultDays:    cfg.Schedule.DefaultDays,
		MaxDays:        cfg.Schedule.MaxDays,
		RequestTimeout: cfg.Server.Timeout,
	}
}

// Dependencies are the services behind the handlers. Engine and Generator
// are required; the rest are optional.
type Dependencies struct {
	Engine      *recommend.Holder
	Generator   ScheduleGenerator
	Schedules   ScheduleStore
	Preferences PreferenceStore
	Training    TrainingController
	Models      ModelLister
	Monitor     *middleware.PerformanceMonitor
	Limits      Limits
}

// Handler implements the API endpoints.
type Handler struct {
	deps      Dependencies
	limits    Limits
	startTime time.Time
}

// NewHandler creates a handler. Zero limits take the configuration defaults.
func NewHandler(deps Dependencies) *Handler {
	limits := deps.Limits
	def := LimitsFromConfig(config.Default())
	if limits.DefaultN <= 0 {
		limits.DefaultN = def.DefaultN
	}
	if limits.MaxN <= 0 {
		limits.MaxN = def.MaxN
	}
	if limits.DefaultDays <= 0 {
		limits.DefaultDays = def.DefaultDays
	}
	if limits.MaxDays <= 0 {
		limits.MaxDays = def.MaxDays
	}
	if limits.RequestTimeout <= 0 {
		limits.RequestTimeout = def.RequestTimeout
	}
	if deps.Engine == nil {
		deps.Engine = recommend.NewHolder(nil)
	}

	return &Handler{deps: deps, limits: limits, startTime: time.Now()}
}

// withTimeout bounds a handler's work by the configured request timeout.
func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.limits.RequestTimeout)
}

// decodeBody decodes a JSON body into v, rejecting unknown fields. An empty
// body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
