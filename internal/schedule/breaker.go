// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
)

// BreakerSettings configures a BreakerRecommender.
type BreakerSettings struct {
	Name string

	// MaxRequests allowed in the half-open state.
	MaxRequests uint32

	// Interval resets the closed-state counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered.
	MinRequests uint32

	// FailureRatio at or above which the breaker opens.
	FailureRatio float64

	// Expected lists errors that are answers, not failures
	// (for example an unknown meal type).
	Expected []error
}

// DefaultBreakerSettings returns settings for the recommendation path.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "recommend",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerRecommender guards a Recommender with a circuit breaker so that a
// failing model (for example one not loaded yet) fails fast instead of
// being queried for every slot of every day.
type BreakerRecommender struct {
	next     Recommender
	cb       *gobreaker.CircuitBreaker[[]catalog.MealEntry]
	name     string
	expected []error
}

// NewBreakerRecommender wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerRecommender(next Recommender, settings BreakerSettings, logger zerolog.Logger) *BreakerRecommender {
	b := &BreakerRecommender{
		next:     next,
		name:     settings.Name,
		expected: append([]error{context.Canceled, context.DeadlineExceeded}, settings.Expected...),
	}
	log := logger.With().Str("component", "breaker").Str("breaker", settings.Name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0) // 0 = closed

	b.cb = gobreaker.NewCircuitBreaker[[]catalog.MealEntry](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= settings.FailureRatio {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.RecordBreakerTransition(name, from.String(), to.String())
		},

		IsSuccessful: b.isSuccessful,
	})

	return b
}

func (b *BreakerRecommender) isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	for _, e := range b.expected {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Recommend implements Recommender.
func (b *BreakerRecommender) Recommend(ctx context.Context, history []int64, n int, mealType string) ([]catalog.MealEntry, error) {
	meals, err := b.cb.Execute(func() ([]catalog.MealEntry, error) {
		return b.next.Recommend(ctx, history, n, mealType)
	})

	switch {
	case err == nil:
		metrics.RecordBreakerRequest(b.name, "success")
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest(b.name, "rejected")
	default:
		metrics.RecordBreakerRequest(b.name, "failure")
	}
	return meals, err
}

// State returns the breaker state name.
func (b *BreakerRecommender) State() string {
	return b.cb.State().String()
}
