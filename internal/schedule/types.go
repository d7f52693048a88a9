// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package schedule

import (
	"time"

	"github.com/tomtom215/mealplan/internal/catalog"
)

// DateLayout is the calendar-date format used in JSON and reports.
const DateLayout = "2006-01-02"

// Preferences are the per-request user inputs.
type Preferences struct {
	// History lists previously consumed meal ids. Order and duplicates do
	// not matter.
	History []int64 `json:"history"`

	// MaxCalories is the per-day calorie ceiling. Zero means unset.
	MaxCalories float64 `json:"max_calories"`
}

// Slot is one meal of a day.
type Slot struct {
	MealType string `json:"meal_type"`

	// Meal is nil when no recommendation was available.
	Meal *catalog.MealEntry `json:"meal"`
}

// Available reports whether the slot holds a meal.
func (s *Slot) Available() bool {
	return s.Meal != nil
}

// DailySchedule is one day of the plan. Slots always follow the generator's
// meal-type order and always contain every type.
type DailySchedule struct {
	Date  time.Time `json:"date"`
	Slots []Slot    `json:"slots"`

	// TotalCalories sums the available slots.
	TotalCalories float64 `json:"total_calories"`

	// RepairAttempts is the number of calorie repair queries made.
	RepairAttempts int `json:"repair_attempts"`

	// Repaired is true when at least one slot was replaced.
	Repaired bool `json:"repaired"`

	// WithinBudget is false only when a ceiling was set and the final total
	// still exceeds it.
	WithinBudget bool `json:"within_budget"`
}

// Meal returns the meal assigned to mealType, or nil.
func (d *DailySchedule) Meal(mealType string) *catalog.MealEntry {
	for i := range d.Slots {
		if d.Slots[i].MealType == mealType {
			return d.Slots[i].Meal
		}
	}
	return nil
}

// DateString returns the date in DateLayout.
func (d *DailySchedule) DateString() string {
	return d.Date.Format(DateLayout)
}

func (d *DailySchedule) recomputeTotal() {
	var total float64
	for i := range d.Slots {
		if d.Slots[i].Meal != nil {
			total += d.Slots[i].Meal.Calories
		}
	}
	d.TotalCalories = total
}

// highestCalorieSlot returns the index of the available slot with the most
// calories, preferring the earliest on ties, or -1 if none is available.
func (d *DailySchedule) highestCalorieSlot() int {
	best := -1
	for i := range d.Slots {
		m := d.Slots[i].Meal
		if m == nil {
			continue
		}
		if best < 0 || m.Calories > d.Slots[best].Meal.Calories {
			best = i
		}
	}
	return best
}

// Schedule is a multi-day plan starting on StartDate.
type Schedule struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	StartDate   time.Time       `json:"start_date"`
	Preferences Preferences     `json:"preferences"`
	Days        []DailySchedule `json:"days"`
}

// OverBudgetDays counts days whose total exceeds the ceiling.
func (s *Schedule) OverBudgetDays() int {
	n := 0
	for i := range s.Days {
		if !s.Days[i].WithinBudget {
			n++
		}
	}
	return n
}

// UnavailableSlots counts slots with no meal.
func (s *Schedule) UnavailableSlots() int {
	n := 0
	for i := range s.Days {
		for j := range s.Days[i].Slots {
			if s.Days[i].Slots[j].Meal == nil {
				n++
			}
		}
	}
	return n
}
