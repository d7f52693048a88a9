// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package database

import (
	"context"
	"fmt"
)

// schemaStatements run in order on every open. Each is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS meals (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		type VARCHAR NOT NULL,
		calories DOUBLE NOT NULL,
		protein DOUBLE NOT NULL,
		fat DOUBLE NOT NULL,
		carbs DOUBLE NOT NULL,
		fiber DOUBLE NOT NULL,
		ingredients VARCHAR NOT NULL,
		tags VARCHAR NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meals_type ON meals(type)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id VARCHAR PRIMARY KEY,
		created_at VARCHAR NOT NULL,
		start_date VARCHAR NOT NULL,
		days INTEGER NOT NULL,
		max_calories DOUBLE NOT NULL,
		history VARCHAR NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_created_at ON schedules(created_at)`,

	`CREATE TABLE IF NOT EXISTS schedule_days (
		schedule_id VARCHAR NOT NULL,
		day_index INTEGER NOT NULL,
		day_date VARCHAR NOT NULL,
		total_calories DOUBLE NOT NULL,
		repair_attempts INTEGER NOT NULL,
		repaired BOOLEAN NOT NULL,
		within_budget BOOLEAN NOT NULL,
		PRIMARY KEY (schedule_id, day_index)
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_slots (
		schedule_id VARCHAR NOT NULL,
		day_index INTEGER NOT NULL,
		slot_index INTEGER NOT NULL,
		day_date VARCHAR NOT NULL,
		meal_type VARCHAR NOT NULL,
		meal_id BIGINT,
		calories DOUBLE,
		meal VARCHAR,
		PRIMARY KEY (schedule_id, day_index, slot_index)
	)`,
}

func (db *DB) initialize(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
