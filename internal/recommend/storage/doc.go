// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package storage persists trained recommender artifacts.
//
// # Storage Format
//
// Each artifact is a single file:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded state)
//
// The checksum in the metadata is the SHA-256 of the uncompressed payload
// and is verified on every Load. A training run writes all of its artifacts
// (vectorizer, scaler, matrix, catalog snapshot) under one shared version so
// that a reload can check they belong together.
//
// # Usage
//
//	store, err := storage.NewStore("/var/lib/mealplan/models")
//	if err != nil {
//	    return err
//	}
//
//	version := store.NextVersion()
//	err = store.Save(ctx, "minmax_scaler", version, scaler.State(), storage.ArtifactMetadata{
//	    MealCount: cat.Len(),
//	    TrainedAt: time.Now(),
//	})
//
//	var state features.ScalerState
//	meta, err := store.Load(ctx, "minmax_scaler", 0, &state) // 0 = latest
//
// # Thread Safety
//
// A Store serializes writers with a mutex and allows concurrent readers.
// Files are written to a temporary name and renamed into place, so readers
// never observe a partial file.
package storage
