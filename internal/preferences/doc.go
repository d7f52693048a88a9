// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package preferences stores per-user meal history and calorie ceilings in
// BadgerDB.
//
// Each user is one key, prefs:{userID}, holding a JSON document. History is
// kept in consumption order without duplicates and capped at MaxHistory
// entries (oldest dropped first). The API falls back to stored preferences
// when a schedule request names a user but omits history.
package preferences
