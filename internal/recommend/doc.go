// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package recommend implements content-based meal recommendation.
//
// # Architecture
//
// Training turns a catalog into a fixed feature space (see package
// features): TF-IDF weights over ingredients and tags, followed by min-max
// scaled nutrition columns. The fitted vectorizer, scaler, matrix, and
// catalog snapshot form an Artifacts set that is persisted under a single
// version in the artifact store (package storage).
//
// At query time an Engine scores every catalog row by its mean cosine
// similarity to the rows of a user's history, applies an optional meal-type
// filter, drops history meals, and returns the top n. Ties are broken by
// ascending catalog position.
//
// # Usage
//
//	art, err := recommend.LoadArtifacts(ctx, store, 0)
//	if err != nil {
//	    return err
//	}
//	engine, err := recommend.NewEngine(art, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	meals, err := engine.Recommend(ctx, []int64{45, 120}, 5, "Sarapan")
//
// # Edge Cases
//
//   - An empty or fully unknown history scores every meal 0, so the result
//     is the filtered catalog in position order.
//   - A meal-type label that no entry carries returns ErrUnknownMealType.
//   - n <= 0 returns ErrInvalidCount.
//
// # Thread Safety
//
// Engine is immutable apart from its result cache and counters, both of
// which are synchronized. Holder swaps engines atomically after a retrain.
// Trainer allows one run at a time.
package recommend
