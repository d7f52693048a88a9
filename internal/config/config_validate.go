// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateCatalog,
		c.validateModel,
		c.validateRecommend,
		c.validateSchedule,
		c.validateDatabase,
		c.validatePreferences,
		c.validateTraining,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" && !c.Catalog.FromDatabase {
		return fmt.Errorf("CATALOG_PATH is required unless CATALOG_FROM_DATABASE=true")
	}
	switch strings.ToLower(c.Catalog.Format) {
	case "", "csv", "json":
	default:
		return fmt.Errorf("CATALOG_FORMAT must be csv or json, got %q", c.Catalog.Format)
	}
	if c.Catalog.FromDatabase && !c.Database.Enabled {
		return fmt.Errorf("CATALOG_FROM_DATABASE requires DATABASE_ENABLED=true")
	}
	return nil
}

func (c *Config) validateModel() error {
	if c.Model.Dir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.Model.KeepVersions < 0 {
		return fmt.Errorf("MODEL_KEEP_VERSIONS must be non-negative, got %d", c.Model.KeepVersions)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultN < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be at least 1, got %d", r.DefaultN)
	}
	if r.MaxN < r.DefaultN {
		return fmt.Errorf("RECOMMEND_MAX_N (%d) must be >= RECOMMEND_DEFAULT_N (%d)", r.MaxN, r.DefaultN)
	}
	if r.CacheEnabled {
		if r.CacheTTL <= 0 {
			return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when caching is enabled")
		}
		if r.CacheMaxEntries < 1 {
			return fmt.Errorf("RECOMMEND_CACHE_MAX_ENTRIES must be at least 1 when caching is enabled")
		}
	}
	return nil
}

func (c *Config) validateSchedule() error {
	s := c.Schedule
	if s.CandidatesPerSlot < 1 {
		return fmt.Errorf("SCHEDULE_CANDIDATES_PER_SLOT must be at least 1, got %d", s.CandidatesPerSlot)
	}
	if s.MaxRepairAttempts < 0 {
		return fmt.Errorf("SCHEDULE_MAX_REPAIR_ATTEMPTS must be non-negative, got %d", s.MaxRepairAttempts)
	}
	if s.DefaultDays < 1 {
		return fmt.Errorf("SCHEDULE_DEFAULT_DAYS must be at least 1, got %d", s.DefaultDays)
	}
	if s.MaxDays < s.DefaultDays {
		return fmt.Errorf("SCHEDULE_MAX_DAYS (%d) must be >= SCHEDULE_DEFAULT_DAYS (%d)", s.MaxDays, s.DefaultDays)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.Enabled {
		return nil
	}
	switch c.Database.Driver {
	case "duckdb", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be duckdb or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DATABASE_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validatePreferences() error {
	p := c.Preferences
	if !p.Enabled {
		return nil
	}
	if !p.InMemory && p.Path == "" {
		return fmt.Errorf("PREFERENCES_PATH is required unless PREFERENCES_IN_MEMORY=true")
	}
	if p.MaxHistory < 1 {
		return fmt.Errorf("PREFERENCES_MAX_HISTORY must be at least 1, got %d", p.MaxHistory)
	}
	return nil
}

func (c *Config) validateTraining() error {
	t := c.Training
	if t.Schedule != "" {
		if _, err := cron.ParseStandard(t.Schedule); err != nil {
			return fmt.Errorf("TRAINING_SCHEDULE is not a valid cron expression: %w", err)
		}
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("TRAINING_TIMEOUT must be positive")
	}
	if t.MinTriggerInterval < 0 {
		return fmt.Errorf("TRAINING_MIN_TRIGGER_INTERVAL must be non-negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
