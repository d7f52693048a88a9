// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine and trainer.
type Config struct {
	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`

	// Training contains trainer parameters.
	Training TrainingConfig `json:"training"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultN is used when a caller does not ask for a specific count.
	// Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN is the largest count accepted by the API.
	// Default: 100.
	MaxN int `json:"max_n"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// TrainingConfig contains trainer parameters.
type TrainingConfig struct {
	// Timeout bounds a single training run.
	// Default: 5m.
	Timeout time.Duration `json:"timeout"`

	// RetainVersions is the number of artifact versions kept on disk.
	// Default: 3.
	RetainVersions int `json:"retain_versions"`

	// NormalizeUnicode applies NFKC before tokenizing.
	// Default: false.
	NormalizeUnicode bool `json:"normalize_unicode"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultN: 5,
			MaxN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Training: TrainingConfig{
			Timeout:        5 * time.Minute,
			RetainVersions: 3,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	return &Config{
		Limits:   c.Limits,
		Cache:    c.Cache,
		Training: c.Training,
	}
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type cacheJSON struct {
		Enabled    bool   `json:"enabled"`
		TTL        string `json:"ttl"`
		MaxEntries int    `json:"max_entries"`
	}
	type trainingJSON struct {
		Timeout          string `json:"timeout"`
		RetainVersions   int    `json:"retain_versions"`
		NormalizeUnicode bool   `json:"normalize_unicode"`
	}

	return json.Marshal(&struct {
		Limits   LimitsConfig `json:"limits"`
		Cache    cacheJSON    `json:"cache"`
		Training trainingJSON `json:"training"`
	}{
		Limits: c.Limits,
		Cache: cacheJSON{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
		Training: trainingJSON{
			Timeout:          c.Training.Timeout.String(),
			RetainVersions:   c.Training.RetainVersions,
			NormalizeUnicode: c.Training.NormalizeUnicode,
		},
	})
}
