// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package schedule builds multi-day meal plans from recommendation queries.
//
// Each day has one slot per meal type (Sarapan, Makan Siang, Makan Malam).
// A slot is filled by asking the recommender for three candidates similar
// to the user's history and picking one at random. When a calorie ceiling
// is set and a day exceeds it, a bounded greedy repair replaces the
// highest-calorie meal with the top meal similar to it, up to three times.
//
// Randomness only affects the initial pick and comes from an injectable
// *rand.Rand; the start date comes from an injectable clock. Given the same
// seed, clock, and recommender, GenerateSchedule is reproducible.
//
// BreakerRecommender wraps the query path in a gobreaker circuit breaker.
package schedule
