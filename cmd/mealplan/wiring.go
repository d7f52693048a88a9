// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/mealplan/internal/config"
	"github.com/tomtom215/mealplan/internal/database"
	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
	"github.com/tomtom215/mealplan/internal/schedule"
)

// recommendConfig maps the application config onto the engine config.
func recommendConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	rc.Limits.DefaultN = cfg.Recommend.DefaultN
	rc.Limits.MaxN = cfg.Recommend.MaxN
	rc.Cache.Enabled = cfg.Recommend.CacheEnabled
	rc.Cache.TTL = cfg.Recommend.CacheTTL
	rc.Cache.MaxEntries = cfg.Recommend.CacheMaxEntries
	rc.Training.Timeout = cfg.Training.Timeout
	rc.Training.RetainVersions = cfg.Model.KeepVersions
	rc.Training.NormalizeUnicode = cfg.Model.NormalizeUnicode
	return rc
}

// openDatabase returns nil when the database is disabled.
func openDatabase(cfg *config.Config) (*database.DB, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *database.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing database")
	}
}

// catalogSource picks the database or the catalog file.
func catalogSource(cfg *config.Config, db *database.DB) recommend.CatalogSource {
	if cfg.Catalog.FromDatabase && db != nil {
		return db
	}
	return recommend.FileSource{Path: cfg.Catalog.Path, Format: cfg.Catalog.Format}
}

func newTrainer(cfg *config.Config, db *database.DB, store *storage.Store) *recommend.Trainer {
	return recommend.NewTrainer(catalogSource(cfg, db), store, recommendConfig(cfg), logging.Logger())
}

// loadOrTrainEngine loads the latest artifacts, training first when none
// have been stored yet.
func loadOrTrainEngine(ctx context.Context, cfg *config.Config) (*recommend.Engine, error) {
	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	art, err := recommend.LoadArtifacts(ctx, store, 0)
	if errors.Is(err, storage.ErrNotFound) {
		logging.Info().Str("dir", cfg.Model.Dir).Msg("no stored model, training now")

		db, dbErr := openDatabase(cfg)
		if dbErr != nil {
			return nil, dbErr
		}
		defer closeDatabase(db)

		art, err = newTrainer(cfg, db, store).Train(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return recommend.NewEngine(art, recommendConfig(cfg), logging.Logger())
}

// newGenerator builds the schedule generator, optionally behind the
// circuit breaker.
func newGenerator(cfg *config.Config, rec schedule.Recommender, seed int64) *schedule.Generator {
	logger := logging.Logger()
	if cfg.Schedule.BreakerEnabled {
		settings := schedule.DefaultBreakerSettings()
		settings.Expected = []error{recommend.ErrUnknownMealType, recommend.ErrInvalidCount}
		rec = schedule.NewBreakerRecommender(rec, settings, logger)
	}
	return schedule.NewGenerator(rec, schedule.Options{
		CandidatesPerSlot: cfg.Schedule.CandidatesPerSlot,
		MaxRepairAttempts: cfg.Schedule.MaxRepairAttempts,
		Seed:              seed,
	}, logger)
}
