// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
)

// SaveCatalog replaces the meals table with cat in one transaction.
func (db *DB) SaveCatalog(ctx context.Context, cat *catalog.Catalog) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_catalog", "meals", time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM meals`); err != nil {
		return fmt.Errorf("failed to clear meals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meals (id, name, type, calories, protein, fat, carbs, fiber, ingredients, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare meal insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, m := range cat.Entries() {
		if _, err = stmt.ExecContext(ctx,
			m.ID, m.Name, m.Type,
			m.Calories, m.Protein, m.Fat, m.Carbs, m.Fiber,
			catalog.FormatList(m.Ingredients), catalog.FormatList(m.Tags),
		); err != nil {
			return fmt.Errorf("failed to insert meal %d: %w", m.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads the meals table ordered by id.
func (db *DB) LoadCatalog(ctx context.Context) (cat *catalog.Catalog, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("load_catalog", "meals", time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, type, calories, protein, fat, carbs, fiber, ingredients, tags
		FROM meals
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var entries []catalog.MealEntry
	for rows.Next() {
		var (
			m                 catalog.MealEntry
			ingredients, tags string
		)
		if err = rows.Scan(&m.ID, &m.Name, &m.Type,
			&m.Calories, &m.Protein, &m.Fat, &m.Carbs, &m.Fiber,
			&ingredients, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		if m.Ingredients, err = catalog.ParseList(ingredients); err != nil {
			return nil, fmt.Errorf("meal %d ingredients: %w", m.ID, err)
		}
		if m.Tags, err = catalog.ParseList(tags); err != nil {
			return nil, fmt.Errorf("meal %d tags: %w", m.ID, err)
		}
		entries = append(entries, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return catalog.NewCatalog(entries)
}

// MealCount returns the number of stored meals.
func (db *DB) MealCount(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return n, nil
}
