// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/recommend/features"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
)

// Artifact names. Every artifact of one training run shares a version.
const (
	ArtifactVectorizer = "tfidf_vectorizer"
	ArtifactScaler     = "minmax_scaler"
	ArtifactMatrix     = "feature_matrix"
	ArtifactCatalog    = "meal_catalog"
)

// ArtifactNames lists the artifact set in save order.
func ArtifactNames() []string {
	return []string{ArtifactVectorizer, ArtifactScaler, ArtifactMatrix, ArtifactCatalog}
}

// Artifacts is the fitted model: everything the engine needs to answer
// queries. It is immutable once built.
type Artifacts struct {
	Version    int
	TrainedAt  time.Time
	Vectorizer *features.TfidfVectorizer
	Scaler     *features.MinMaxScaler
	Matrix     [][]float64
	Catalog    *catalog.Catalog
}

// matrixState and catalogState are the gob payloads for the matrix and
// catalog artifacts.
type matrixState struct {
	Rows [][]float64
}

type catalogState struct {
	Entries []catalog.MealEntry
}

// Train builds a fresh, unversioned artifact set from cat.
func Train(ctx context.Context, cat *catalog.Catalog, opts features.Options) (*Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := features.Build(cat, opts)
	if err != nil {
		return nil, err
	}
	return FromResult(res), nil
}

// FromResult wraps a feature build result.
func FromResult(res *features.Result) *Artifacts {
	return &Artifacts{
		TrainedAt:  time.Now(),
		Vectorizer: res.Vectorizer,
		Scaler:     res.Scaler,
		Matrix:     res.Matrix,
		Catalog:    res.Catalog,
	}
}

// Dim returns the feature width.
func (a *Artifacts) Dim() int {
	return a.Vectorizer.Dim() + a.Scaler.Dim()
}

// check verifies the artifacts agree on shape.
func (a *Artifacts) check() error {
	if a.Vectorizer == nil || a.Scaler == nil || a.Catalog == nil {
		return fmt.Errorf("%w: incomplete artifact set", ErrArtifactMismatch)
	}
	if len(a.Matrix) != a.Catalog.Len() {
		return fmt.Errorf("%w: %d matrix rows for %d meals", ErrArtifactMismatch, len(a.Matrix), a.Catalog.Len())
	}
	if a.Scaler.Dim() != len(catalog.NutritionColumns) {
		return fmt.Errorf("%w: scaler has %d columns, want %d", ErrArtifactMismatch, a.Scaler.Dim(), len(catalog.NutritionColumns))
	}
	dim := a.Dim()
	for i, row := range a.Matrix {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has width %d, want %d", ErrArtifactMismatch, i, len(row), dim)
		}
	}
	return nil
}

// SaveArtifacts persists the set under the store's next version and returns
// that version. The four artifacts are written concurrently.
func SaveArtifacts(ctx context.Context, store *storage.Store, art *Artifacts, buildDuration time.Duration) (int, error) {
	if err := art.check(); err != nil {
		return 0, err
	}

	version := store.NextVersion()
	meta := storage.ArtifactMetadata{
		TrainedAt:       art.TrainedAt,
		MealCount:       art.Catalog.Len(),
		VocabularySize:  art.Vectorizer.Dim(),
		FeatureDim:      art.Dim(),
		BuildDurationMS: buildDuration.Milliseconds(),
	}

	payloads := map[string]interface{}{
		ArtifactVectorizer: art.Vectorizer.State(),
		ArtifactScaler:     art.Scaler.State(),
		ArtifactMatrix:     matrixState{Rows: art.Matrix},
		ArtifactCatalog:    catalogState{Entries: art.Catalog.Entries()},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range ArtifactNames() {
		g.Go(func() error {
			if err := store.Save(gctx, name, version, payloads[name], meta); err != nil {
				return fmt.Errorf("save %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	art.Version = version
	return version, nil
}

// LoadArtifacts reads an artifact set. Version 0 selects the latest
// vectorizer version; every other artifact must exist at that version.
func LoadArtifacts(ctx context.Context, store *storage.Store, version int) (*Artifacts, error) {
	if version == 0 {
		latest, ok := store.GetLatestVersion(ArtifactVectorizer)
		if !ok {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, ArtifactVectorizer)
		}
		version = latest
	}

	var (
		vecState    features.VectorizerState
		scalerState features.ScalerState
		matrix      matrixState
		cat         catalogState
	)
	targets := map[string]interface{}{
		ArtifactVectorizer: &vecState,
		ArtifactScaler:     &scalerState,
		ArtifactMatrix:     &matrix,
		ArtifactCatalog:    &cat,
	}

	metas := make(map[string]*storage.ArtifactMetadata, len(targets))
	for _, name := range ArtifactNames() {
		meta, err := store.Load(ctx, name, version, targets[name])
		if err != nil {
			return nil, fmt.Errorf("load %s v%d: %w", name, version, err)
		}
		metas[name] = meta
	}

	vec, err := features.VectorizerFromState(vecState)
	if err != nil {
		return nil, fmt.Errorf("restore vectorizer: %w", err)
	}
	scaler, err := features.ScalerFromState(scalerState)
	if err != nil {
		return nil, fmt.Errorf("restore scaler: %w", err)
	}
	c, err := catalog.NewCatalog(cat.Entries)
	if err != nil {
		return nil, fmt.Errorf("restore catalog: %w", err)
	}

	art := &Artifacts{
		Version:    version,
		TrainedAt:  metas[ArtifactVectorizer].TrainedAt,
		Vectorizer: vec,
		Scaler:     scaler,
		Matrix:     matrix.Rows,
		Catalog:    c,
	}
	if err := art.check(); err != nil {
		return nil, err
	}
	return art, nil
}
