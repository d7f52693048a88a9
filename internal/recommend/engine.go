// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/metrics"
	"github.com/tomtom215/mealplan/internal/recommend/index"
)

// Engine ranks catalog meals by content similarity to a consumption history.
// It is built from explicitly passed artifacts and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	art *Artifacts
	idx *index.SimilarityIndex

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64

	// Cache (TTL map)
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex
}

// cacheEntry holds a cached ranking.
type cacheEntry struct {
	results   []ScoredMeal
	expiresAt time.Time
}

// NewEngine creates an engine over art.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(art *Artifacts, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if art == nil {
		return nil, ErrNotReady
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := art.check(); err != nil {
		return nil, err
	}

	idx, err := index.New(art.Matrix, art.Catalog)
	if err != nil {
		return nil, fmt.Errorf("build similarity index: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Int("model_version", art.Version).Logger(),
		art:    art,
		idx:    idx,
		cache:  make(map[string]cacheEntry),
	}, nil
}

// Recommend returns up to n meals ranked by mean cosine similarity to the
// history, restricted to mealType when it is not empty. History meals are
// never returned.
func (e *Engine) Recommend(ctx context.Context, history []int64, n int, mealType string) ([]catalog.MealEntry, error) {
	scored, err := e.RecommendScored(ctx, history, n, mealType)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.MealEntry, len(scored))
	for i := range scored {
		out[i] = scored[i].Meal
	}
	return out, nil
}

// RecommendScored is Recommend with the similarity scores attached.
func (e *Engine) RecommendScored(ctx context.Context, history []int64, n int, mealType string) ([]ScoredMeal, error) {
	start := time.Now()
	e.requestCount.Add(1)

	results, err := e.recommend(ctx, history, n, mealType)
	if err != nil {
		e.errorCount.Add(1)
	}
	metrics.RecordRecommendation(mealType, len(results), time.Since(start), err)
	return results, err
}

func (e *Engine) recommend(ctx context.Context, history []int64, n int, mealType string) ([]ScoredMeal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	cat := e.art.Catalog
	if mealType != "" && !cat.HasType(mealType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMealType, mealType)
	}

	excluded, positions, unknown := e.resolveHistory(history)
	if unknown > 0 {
		e.logger.Debug().
			Int("unknown_ids", unknown).
			Int("history", len(history)).
			Msg("dropped unknown history ids")
	}

	key := e.cacheKey(positions, n, mealType)
	if e.config.Cache.Enabled {
		if cached := e.checkCache(key); cached != nil {
			e.cacheHits.Add(1)
			metrics.RecordRecommendCache(true)
			return cached, nil
		}
		e.cacheMisses.Add(1)
		metrics.RecordRecommendCache(false)
	}

	scores := e.idx.Score(positions)
	mask := e.idx.FilterByType(mealType)

	order := make([]int, 0, len(mask))
	for pos, ok := range mask {
		if !ok {
			continue
		}
		if _, skip := excluded[cat.IDAt(pos)]; skip {
			continue
		}
		order = append(order, pos)
	}

	// order is ascending by position, so a stable sort breaks ties on it.
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}

	results := make([]ScoredMeal, len(order))
	for i, pos := range order {
		results[i] = ScoredMeal{
			Meal:     cat.At(pos),
			Score:    scores[pos],
			Position: pos,
		}
	}

	if e.config.Cache.Enabled {
		e.storeCache(key, cloneScored(results))
	}

	e.logger.Debug().
		Int("history_resolved", len(positions)).
		Int("candidates", len(mask)).
		Int("returned", len(results)).
		Str("meal_type", mealType).
		Msg("recommendation complete")

	return results, nil
}

// resolveHistory dedupes history ids and maps the known ones to positions.
// Positions are returned in ascending order.
func (e *Engine) resolveHistory(history []int64) (ids map[int64]struct{}, positions []int, unknown int) {
	ids = make(map[int64]struct{}, len(history))
	positions = make([]int, 0, len(history))
	for _, id := range history {
		if _, dup := ids[id]; dup {
			continue
		}
		ids[id] = struct{}{}
		pos, ok := e.art.Catalog.Position(id)
		if !ok {
			unknown++
			continue
		}
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return ids, positions, unknown
}

// Meal returns the catalog entry for id.
func (e *Engine) Meal(id int64) (catalog.MealEntry, error) {
	return e.art.Catalog.Get(id)
}

// Catalog returns the served catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.art.Catalog
}

// Version returns the artifact version served by this engine.
func (e *Engine) Version() int {
	return e.art.Version
}

// Similarity returns the cosine similarity between two meals.
func (e *Engine) Similarity(a, b int64) (float64, error) {
	pa, ok := e.art.Catalog.Position(a)
	if !ok {
		return 0, fmt.Errorf("%w: %d", catalog.ErrNotFound, a)
	}
	pb, ok := e.art.Catalog.Position(b)
	if !ok {
		return 0, fmt.Errorf("%w: %d", catalog.ErrNotFound, b)
	}
	return e.idx.Similarity(pa, pb), nil
}

// Stats returns engine counters and model information.
func (e *Engine) Stats() Stats {
	return Stats{
		RequestCount:   e.requestCount.Load(),
		CacheHits:      e.cacheHits.Load(),
		CacheMisses:    e.cacheMisses.Load(),
		ErrorCount:     e.errorCount.Load(),
		ModelVersion:   e.art.Version,
		TrainedAt:      e.art.TrainedAt,
		MealCount:      e.art.Catalog.Len(),
		VocabularySize: e.art.Vectorizer.Dim(),
		FeatureDim:     e.art.Dim(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// cacheKey builds a key from resolved history positions. Unknown ids do not
// change the ranking, so they are left out.
func (e *Engine) cacheKey(positions []int, n int, mealType string) string {
	var b strings.Builder
	b.WriteString("rec:")
	b.WriteString(strconv.Itoa(n))
	b.WriteByte(':')
	b.WriteString(mealType)
	b.WriteByte(':')
	for i, p := range positions {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// checkCache returns a copy of a live cached ranking, or nil.
func (e *Engine) checkCache(key string) []ScoredMeal {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[key]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		return nil
	}
	return cloneScored(entry.results)
}

// storeCache stores a ranking in the cache.
func (e *Engine) storeCache(key string, results []ScoredMeal) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.evictIfCacheFull()
	if len(e.cache) >= e.config.Cache.MaxEntries {
		return
	}

	e.cache[key] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictIfCacheFull evicts expired entries if cache is at capacity.
// Must be called with cacheMu held.
func (e *Engine) evictIfCacheFull() {
	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
}

// evictExpiredLocked removes expired cache entries.
// Must be called with cacheMu held.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}
}

// ClearCache removes all cached entries.
func (e *Engine) ClearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.cache = make(map[string]cacheEntry)
	e.logger.Debug().Msg("cache cleared")
}

// Holder serves the current engine and allows it to be swapped after a
// retrain. It satisfies the same Recommend signature as Engine.
type Holder struct {
	engine atomic.Pointer[Engine]
}

// NewHolder returns a holder serving e, which may be nil.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	if e != nil {
		h.engine.Store(e)
	}
	return h
}

// Get returns the current engine or ErrNotReady.
func (h *Holder) Get() (*Engine, error) {
	e := h.engine.Load()
	if e == nil {
		return nil, ErrNotReady
	}
	return e, nil
}

// Swap installs e and returns the previous engine.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.engine.Swap(e)
}

// Recommend delegates to the current engine.
func (h *Holder) Recommend(ctx context.Context, history []int64, n int, mealType string) ([]catalog.MealEntry, error) {
	e, err := h.Get()
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, history, n, mealType)
}
