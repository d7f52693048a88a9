// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
	"github.com/tomtom215/mealplan/internal/recommend/features"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
)

// CatalogSource supplies the catalog to train on.
// The database package implements this without an import cycle.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// TrainedNotifier is told about every successful training run.
type TrainedNotifier interface {
	NotifyTrained(ctx context.Context, version, meals int) error
}

// FileSource loads the catalog from a CSV or JSON file.
type FileSource struct {
	Path   string
	Format string // "csv", "json", or "" to infer from the extension
}

// LoadCatalog implements CatalogSource.
func (f FileSource) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.LoadFile(f.Path, f.Format)
}

// Trainer rebuilds and persists the artifact set. Only one run may be
// active at a time.
type Trainer struct {
	source   CatalogSource
	store    *storage.Store
	config   *Config
	notifier TrainedNotifier
	logger   zerolog.Logger

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus
}

// NewTrainer creates a trainer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(source CatalogSource, store *storage.Store, cfg *Config, logger zerolog.Logger) *Trainer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Trainer{
		source: source,
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// SetNotifier registers a notifier for completed runs.
func (t *Trainer) SetNotifier(n TrainedNotifier) {
	t.notifier = n
}

// Train runs one training cycle: load the catalog, build features, save the
// artifacts, prune old versions, then notify. It returns
// ErrTrainingInProgress if another run holds the lock.
func (t *Trainer) Train(ctx context.Context) (*Artifacts, error) {
	if !t.trainMu.TryLock() {
		metrics.RecordTrainingSkipped()
		return nil, ErrTrainingInProgress
	}
	defer t.trainMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.config.Training.Timeout)
	defer cancel()

	t.setTraining(true)
	start := time.Now()

	art, err := t.run(ctx, start)
	duration := time.Since(start)
	metrics.RecordTraining(duration, err)

	t.statusMu.Lock()
	t.status.IsTraining = false
	if err != nil {
		t.status.LastError = err.Error()
	} else {
		t.status.LastError = ""
		t.status.LastTrainedAt = time.Now()
		t.status.LastDuration = duration
		t.status.ModelVersion = art.Version
		t.status.MealCount = art.Catalog.Len()
	}
	t.statusMu.Unlock()

	if err != nil {
		t.logger.Error().Err(err).Dur("duration", duration).Msg("training failed")
		return nil, err
	}

	t.logger.Info().
		Int("version", art.Version).
		Int("meals", art.Catalog.Len()).
		Int("vocabulary", art.Vectorizer.Dim()).
		Dur("duration", duration).
		Msg("training complete")

	if t.notifier != nil {
		if err := t.notifier.NotifyTrained(ctx, art.Version, art.Catalog.Len()); err != nil {
			t.logger.Warn().Err(err).Int("version", art.Version).Msg("failed to publish training event")
		}
	}
	return art, nil
}

func (t *Trainer) run(ctx context.Context, start time.Time) (*Artifacts, error) {
	cat, err := t.source.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	t.logger.Info().Int("meals", cat.Len()).Msg("loaded catalog")

	art, err := Train(ctx, cat, features.Options{NormalizeUnicode: t.config.Training.NormalizeUnicode})
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	if _, err := SaveArtifacts(ctx, t.store, art, time.Since(start)); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}

	for _, name := range ArtifactNames() {
		if err := t.store.Prune(ctx, name, t.config.Training.RetainVersions); err != nil {
			t.logger.Warn().Err(err).Str("artifact", name).Msg("failed to prune old versions")
		}
	}
	return art, nil
}

func (t *Trainer) setTraining(v bool) {
	t.statusMu.Lock()
	defer t.statusMu.Unlock()
	t.status.IsTraining = v
}

// Status returns the current training status.
func (t *Trainer) Status() TrainingStatus {
	t.statusMu.RLock()
	defer t.statusMu.RUnlock()
	return t.status
}
