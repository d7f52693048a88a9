// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package schedule

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
)

// ErrInvalidDays is returned when the requested day count is not positive.
var ErrInvalidDays = errors.New("days must be positive")

// Recommender answers ranked meal queries. *recommend.Engine and
// *recommend.Holder satisfy it.
type Recommender interface {
	Recommend(ctx context.Context, history []int64, n int, mealType string) ([]catalog.MealEntry, error)
}

// Options configures a Generator.
type Options struct {
	// CandidatesPerSlot is the n passed to every query.
	// Default: 3.
	CandidatesPerSlot int

	// MaxRepairAttempts bounds the calorie repair loop per day.
	// Default: 3.
	MaxRepairAttempts int

	// MealTypes is the fixed daily slot order.
	// Default: Sarapan, Makan Siang, Makan Malam.
	MealTypes []string

	// Seed initializes the slot-selection RNG when Rand is nil.
	// If zero, a fixed default seed is used.
	Seed int64

	// Rand overrides the slot-selection RNG.
	Rand *rand.Rand

	// Now overrides the clock used for the start date.
	Now func() time.Time
}

// DefaultOptions returns the standard generator options.
func DefaultOptions() Options {
	return Options{
		CandidatesPerSlot: 3,
		MaxRepairAttempts: 3,
		MealTypes:         catalog.MealTypes(),
		Seed:              42,
	}
}

// Generator builds multi-day schedules. It is safe for concurrent use; the
// only shared state is the RNG, which is guarded by a mutex.
type Generator struct {
	rec    Recommender
	opts   Options
	logger zerolog.Logger
	now    func() time.Time

	// Random source for slot selection (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewGenerator creates a generator. Zero-valued options take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGenerator(rec Recommender, opts Options, logger zerolog.Logger) *Generator {
	def := DefaultOptions()
	if opts.CandidatesPerSlot <= 0 {
		opts.CandidatesPerSlot = def.CandidatesPerSlot
	}
	if opts.MaxRepairAttempts <= 0 {
		opts.MaxRepairAttempts = def.MaxRepairAttempts
	}
	if len(opts.MealTypes) == 0 {
		opts.MealTypes = def.MealTypes
	}
	if opts.Seed == 0 {
		opts.Seed = def.Seed
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // math/rand is fine for meal selection
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Generator{
		rec:    rec,
		opts:   opts,
		logger: logger.With().Str("component", "schedule").Logger(),
		now:    now,
		rng:    rng,
	}
}

// MealTypes returns the slot order.
func (g *Generator) MealTypes() []string {
	return append([]string(nil), g.opts.MealTypes...)
}

// GenerateSchedule builds a schedule of days consecutive dates starting
// today. Slot failures are logged and leave the slot empty; only an invalid
// day count or context cancellation is returned as an error.
//
//nolint:gocritic // hugeParam: prefs passed by value for immutability
func (g *Generator) GenerateSchedule(ctx context.Context, prefs Preferences, days int) (*Schedule, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	start := time.Now()

	now := g.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s := &Schedule{
		ID:        uuid.NewString(),
		CreatedAt: now,
		StartDate: today,
		Preferences: Preferences{
			History:     append([]int64(nil), prefs.History...),
			MaxCalories: prefs.MaxCalories,
		},
		Days: make([]DailySchedule, 0, days),
	}

	for i := 0; i < days; i++ {
		day, err := g.generateDay(ctx, today.AddDate(0, 0, i), prefs)
		if err != nil {
			return nil, err
		}
		s.Days = append(s.Days, day)
	}

	metrics.RecordSchedule(days, s.OverBudgetDays(), time.Since(start))
	g.logger.Debug().
		Str("schedule_id", s.ID).
		Int("days", days).
		Int("unavailable_slots", s.UnavailableSlots()).
		Int("over_budget_days", s.OverBudgetDays()).
		Msg("schedule generated")

	return s, nil
}

//nolint:gocritic // hugeParam: prefs passed by value for immutability
func (g *Generator) generateDay(ctx context.Context, date time.Time, prefs Preferences) (DailySchedule, error) {
	day := DailySchedule{
		Date:  date,
		Slots: make([]Slot, len(g.opts.MealTypes)),
	}

	for i, mealType := range g.opts.MealTypes {
		if err := ctx.Err(); err != nil {
			return DailySchedule{}, err
		}
		day.Slots[i] = Slot{MealType: mealType, Meal: g.fillSlot(ctx, prefs.History, mealType)}
	}
	if err := ctx.Err(); err != nil {
		return DailySchedule{}, err
	}
	day.recomputeTotal()

	if prefs.MaxCalories > 0 && day.TotalCalories > prefs.MaxCalories {
		g.repair(ctx, &day, prefs.MaxCalories)
		if err := ctx.Err(); err != nil {
			return DailySchedule{}, err
		}
	}
	day.WithinBudget = prefs.MaxCalories <= 0 || day.TotalCalories <= prefs.MaxCalories

	return day, nil
}

// fillSlot queries candidates and picks one uniformly. It returns nil when
// the query fails or yields nothing.
func (g *Generator) fillSlot(ctx context.Context, history []int64, mealType string) *catalog.MealEntry {
	candidates, err := g.rec.Recommend(ctx, history, g.opts.CandidatesPerSlot, mealType)
	if err != nil {
		if ctx.Err() == nil {
			g.logger.Warn().Err(err).Str("meal_type", mealType).Msg("failed to select meal for slot")
			metrics.RecordUnavailableSlot(mealType)
		}
		return nil
	}
	if len(candidates) == 0 {
		g.logger.Warn().Str("meal_type", mealType).Msg("no recommendation available for slot")
		metrics.RecordUnavailableSlot(mealType)
		return nil
	}

	g.rngMu.Lock()
	pick := g.rng.Intn(len(candidates))
	g.rngMu.Unlock()

	m := candidates[pick]
	return &m
}

// repair replaces the highest-calorie slot with the top recommendation
// similar to it, at most MaxRepairAttempts times, stopping once the day is
// within maxCalories.
func (g *Generator) repair(ctx context.Context, day *DailySchedule, maxCalories float64) {
	for attempt := 0; attempt < g.opts.MaxRepairAttempts && day.TotalCalories > maxCalories; attempt++ {
		if ctx.Err() != nil {
			return
		}
		idx := day.highestCalorieSlot()
		if idx < 0 {
			return
		}
		slot := &day.Slots[idx]
		day.RepairAttempts++

		candidates, err := g.rec.Recommend(ctx, []int64{slot.Meal.ID}, g.opts.CandidatesPerSlot, slot.MealType)
		if err != nil {
			g.logger.Warn().Err(err).
				Str("meal_type", slot.MealType).
				Int64("meal_id", slot.Meal.ID).
				Msg("failed to adjust schedule")
			metrics.RecordRepairAttempt("error")
			continue
		}
		if len(candidates) == 0 {
			metrics.RecordRepairAttempt("no_candidate")
			continue
		}

		replacement := candidates[0]
		slot.Meal = &replacement
		day.Repaired = true
		day.recomputeTotal()
		metrics.RecordRepairAttempt("replaced")
	}

	if day.TotalCalories > maxCalories {
		g.logger.Debug().
			Str("date", day.DateString()).
			Float64("total_calories", day.TotalCalories).
			Float64("max_calories", maxCalories).
			Int("attempts", day.RepairAttempts).
			Msg("calorie budget not met after repair")
	}
}
