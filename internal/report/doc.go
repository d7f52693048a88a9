// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package report renders generated schedules for people.
//
// WriteHTML produces a standalone page with one column per date and one row
// per meal type. WriteText produces the console listing with Indonesian
// labels. Both accept any *schedule.Schedule, including ones with empty
// slots.
package report
