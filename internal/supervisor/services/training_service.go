// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package services

import (
	"context"
	"fmt"
	"time"

	rcron "github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mealplan/internal/recommend"
)

// Trainer runs one training cycle. *recommend.Trainer implements it.
type Trainer interface {
	Train(ctx context.Context) (*recommend.Artifacts, error)
	Status() recommend.TrainingStatus
}

// TrainingServiceConfig controls when training runs.
type TrainingServiceConfig struct {
	// Schedule is a standard five-field cron expression. Empty disables
	// periodic training.
	Schedule string

	// OnStartup trains once as soon as the service starts.
	OnStartup bool

	// Timeout bounds a single run. Zero leaves it to the trainer.
	Timeout time.Duration

	// MinTriggerInterval is the minimum spacing of on-demand triggers.
	// Zero disables throttling.
	MinTriggerInterval time.Duration

	// StartAfter, when set, delays the first run until it is closed, so
	// the startup model is not published before the reloader subscribes.
	StartAfter <-chan struct{}
}

// TrainingService runs training on startup, on a cron schedule, and on
// demand. Runs are serialized through a single-slot queue: while one run
// is pending, further triggers are refused.
type TrainingService struct {
	trainer  Trainer
	config   TrainingServiceConfig
	schedule rcron.Schedule
	limiter  *rate.Limiter
	queue    chan string
	logger   zerolog.Logger
}

// NewTrainingService validates the cron expression and creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(trainer Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) (*TrainingService, error) {
	s := &TrainingService{
		trainer: trainer,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Inf, 1),
		queue:   make(chan string, 1),
		logger:  logger.With().Str("service", "training").Logger(),
	}
	if cfg.MinTriggerInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.MinTriggerInterval), 1)
	}
	if cfg.Schedule != "" {
		sched, err := rcron.ParseStandard(cfg.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid training schedule %q: %w", cfg.Schedule, err)
		}
		s.schedule = sched
	}
	return s, nil
}

// Trigger queues an on-demand run. It returns recommend.ErrTrainingInProgress
// when a run is already queued and recommend.ErrTrainingThrottled when the
// previous trigger was too recent.
func (s *TrainingService) Trigger() error {
	if len(s.queue) == cap(s.queue) {
		return recommend.ErrTrainingInProgress
	}
	if !s.limiter.Allow() {
		return recommend.ErrTrainingThrottled
	}
	if !s.enqueue("api") {
		return recommend.ErrTrainingInProgress
	}
	return nil
}

// Status reports the trainer's state.
func (s *TrainingService) Status() recommend.TrainingStatus {
	return s.trainer.Status()
}

func (s *TrainingService) enqueue(reason string) bool {
	select {
	case s.queue <- reason:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Str("schedule", s.config.Schedule).
		Msg("training service starting")

	if s.config.StartAfter != nil {
		select {
		case <-s.config.StartAfter:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if s.config.OnStartup {
		s.run(ctx, "startup")
	}

	if s.schedule != nil {
		c := rcron.New()
		c.Schedule(s.schedule, rcron.FuncJob(func() {
			if !s.enqueue("schedule") {
				s.logger.Debug().Msg("scheduled training skipped, run already queued")
			}
		}))
		c.Start()
		defer c.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()
		case reason := <-s.queue:
			s.run(ctx, reason)
		}
	}
}

// run trains once. Failures are logged and recorded in the trainer's
// status; they never stop the service.
func (s *TrainingService) run(ctx context.Context, reason string) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	s.logger.Info().Str("reason", reason).Msg("starting model training")
	art, err := s.trainer.Train(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("reason", reason).Msg("training run failed")
		return
	}
	s.logger.Info().Str("reason", reason).Int("version", art.Version).Msg("training run complete")
}

// String implements fmt.Stringer for suture's logs.
func (s *TrainingService) String() string {
	return "training-service"
}
