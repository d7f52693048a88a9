// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
	"github.com/tomtom215/mealplan/internal/schedule"
)

// DefaultListLimit caps ListSchedules when limit is not positive.
const DefaultListLimit = 50

// ScheduleSummary is one row of ListSchedules.
type ScheduleSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	StartDate   string    `json:"start_date"`
	Days        int       `json:"days"`
	MaxCalories float64   `json:"max_calories"`
}

// SaveSchedule stores s with its days and slots in one transaction.
func (db *DB) SaveSchedule(ctx context.Context, s *schedule.Schedule) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_schedule", "schedules", time.Since(start), err) }()

	history, err := json.Marshal(nonNilIDs(s.Preferences.History))
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO schedules (id, created_at, start_date, days, max_calories, history)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, formatTime(s.CreatedAt), s.StartDate.Format(schedule.DateLayout),
		len(s.Days), s.Preferences.MaxCalories, string(history),
	); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	for d := range s.Days {
		day := &s.Days[d]
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO schedule_days (schedule_id, day_index, day_date, total_calories, repair_attempts, repaired, within_budget)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, d, day.DateString(), day.TotalCalories, day.RepairAttempts, day.Repaired, day.WithinBudget,
		); err != nil {
			return fmt.Errorf("failed to insert day %d: %w", d, err)
		}

		for i := range day.Slots {
			if err = insertSlot(ctx, tx, s.ID, d, i, day.DateString(), &day.Slots[i]); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedule: %w", err)
	}
	return nil
}

func insertSlot(ctx context.Context, tx *sql.Tx, scheduleID string, day, idx int, date string, slot *schedule.Slot) error {
	var (
		mealID   sql.NullInt64
		calories sql.NullFloat64
		meal     sql.NullString
	)
	if slot.Meal != nil {
		b, err := json.Marshal(slot.Meal)
		if err != nil {
			return fmt.Errorf("failed to encode meal %d: %w", slot.Meal.ID, err)
		}
		mealID = sql.NullInt64{Int64: slot.Meal.ID, Valid: true}
		calories = sql.NullFloat64{Float64: slot.Meal.Calories, Valid: true}
		meal = sql.NullString{String: string(b), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schedule_slots (schedule_id, day_index, slot_index, day_date, meal_type, meal_id, calories, meal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		scheduleID, day, idx, date, slot.MealType, mealID, calories, meal,
	); err != nil {
		return fmt.Errorf("failed to insert slot %d/%d: %w", day, idx, err)
	}
	return nil
}

// GetSchedule loads a stored schedule, or ErrNotFound.
func (db *DB) GetSchedule(ctx context.Context, id string) (s *schedule.Schedule, err error) {
	start := time.Now()
	defer func() {
		if errors.Is(err, ErrNotFound) {
			metrics.RecordDBQuery("get_schedule", "schedules", time.Since(start), nil)
			return
		}
		metrics.RecordDBQuery("get_schedule", "schedules", time.Since(start), err)
	}()

	var (
		createdAt, startDate, history string
		days                          int
	)
	s = &schedule.Schedule{ID: id}
	err = db.conn.QueryRowContext(ctx, `
		SELECT created_at, start_date, days, max_calories, history
		FROM schedules WHERE id = ?`, id,
	).Scan(&createdAt, &startDate, &days, &s.Preferences.MaxCalories, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}

	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.StartDate, err = time.Parse(schedule.DateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	if err = json.Unmarshal([]byte(history), &s.Preferences.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	if s.Days, err = db.loadDays(ctx, id, days); err != nil {
		return nil, err
	}
	if err = db.loadSlots(ctx, id, s.Days); err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) loadDays(ctx context.Context, id string, n int) ([]schedule.DailySchedule, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT day_index, day_date, total_calories, repair_attempts, repaired, within_budget
		FROM schedule_days WHERE schedule_id = ?
		ORDER BY day_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule days: %w", err)
	}
	defer closeWithLog(rows, "rows")

	days := make([]schedule.DailySchedule, 0, n)
	for rows.Next() {
		var (
			idx  int
			date string
			day  schedule.DailySchedule
		)
		if err := rows.Scan(&idx, &date, &day.TotalCalories, &day.RepairAttempts, &day.Repaired, &day.WithinBudget); err != nil {
			return nil, fmt.Errorf("failed to scan schedule day: %w", err)
		}
		if idx != len(days) {
			return nil, fmt.Errorf("schedule %s: day %d out of order", id, idx)
		}
		if day.Date, err = time.Parse(schedule.DateLayout, date); err != nil {
			return nil, fmt.Errorf("parse day date: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedule days: %w", err)
	}
	return days, nil
}

func (db *DB) loadSlots(ctx context.Context, id string, days []schedule.DailySchedule) error {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT day_index, meal_type, meal
		FROM schedule_slots WHERE schedule_id = ?
		ORDER BY day_index, slot_index`, id)
	if err != nil {
		return fmt.Errorf("failed to query schedule slots: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			dayIdx   int
			mealType string
			meal     sql.NullString
		)
		if err := rows.Scan(&dayIdx, &mealType, &meal); err != nil {
			return fmt.Errorf("failed to scan schedule slot: %w", err)
		}
		if dayIdx < 0 || dayIdx >= len(days) {
			return fmt.Errorf("schedule %s: slot references unknown day %d", id, dayIdx)
		}

		slot := schedule.Slot{MealType: mealType}
		if meal.Valid {
			var m catalog.MealEntry
			if err := json.Unmarshal([]byte(meal.String), &m); err != nil {
				return fmt.Errorf("failed to decode slot meal: %w", err)
			}
			slot.Meal = &m
		}
		days[dayIdx].Slots = append(days[dayIdx].Slots, slot)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate schedule slots: %w", err)
	}
	return nil
}

// ListSchedules returns the newest schedules first. A non-positive limit
// uses DefaultListLimit.
func (db *DB) ListSchedules(ctx context.Context, limit int) (out []ScheduleSummary, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_schedules", "schedules", time.Since(start), err) }()

	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, created_at, start_date, days, max_calories
		FROM schedules
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out = []ScheduleSummary{}
	for rows.Next() {
		var (
			sum       ScheduleSummary
			createdAt string
		)
		if err = rows.Scan(&sum.ID, &createdAt, &sum.StartDate, &sum.Days, &sum.MaxCalories); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		if sum.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return out, nil
}

// DeleteSchedule removes a schedule and its rows. Missing ids are not an error.
func (db *DB) DeleteSchedule(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete_schedule", "schedules", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"schedule_slots", "schedule_days"} {
		//nolint:gosec // table names are constants
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE schedule_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return tx.Commit()
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
