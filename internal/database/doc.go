// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package database persists the meal catalog and generated schedules.
//
// Two database/sql drivers are supported and selected by
// config.DatabaseConfig.Driver:
//   - duckdb: github.com/duckdb/duckdb-go/v2 (CGO, the production default)
//   - sqlite: modernc.org/sqlite (pure Go, used by tests and small installs)
//
// The schema is written in the SQL subset both engines accept. Timestamps
// are stored as fixed-width UTC text so ordering works the same on both,
// and list columns (ingredients, tags, history) are stored as JSON text.
//
// Tables:
//   - meals: the catalog snapshot, replaced as a whole by SaveCatalog
//   - schedules: one row per generated plan
//   - schedule_days: per-day totals and repair outcome
//   - schedule_slots: one row per meal slot, meal_id NULL when empty
//
// DB implements recommend.CatalogSource, so the trainer can read the
// catalog straight from the database.
package database
