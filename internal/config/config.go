// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	Catalog     CatalogConfig     `koanf:"catalog"`
	Model       ModelConfig       `koanf:"model"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Schedule    ScheduleConfig    `koanf:"schedule"`
	Database    DatabaseConfig    `koanf:"database"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Training    TrainingConfig    `koanf:"training"`
	Server      ServerConfig      `koanf:"server"`
	Security    SecurityConfig    `koanf:"security"`
	Annotator   AnnotatorConfig   `koanf:"annotator"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// CatalogConfig locates the enriched meal table.
type CatalogConfig struct {
	Path string `koanf:"path"`

	// Format is csv or json. Empty infers it from the file extension.
	Format string `koanf:"format"`

	// FromDatabase makes training read the catalog from the database
	// instead of Path.
	FromDatabase bool `koanf:"from_database"`
}

// ModelConfig controls artifact storage.
type ModelConfig struct {
	Dir              string `koanf:"dir"`
	KeepVersions     int    `koanf:"keep_versions"`
	NormalizeUnicode bool   `koanf:"normalize_unicode"`
}

// RecommendConfig tunes the query engine.
type RecommendConfig struct {
	DefaultN        int           `koanf:"default_n"`
	MaxN            int           `koanf:"max_n"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// ScheduleConfig tunes the schedule generator.
type ScheduleConfig struct {
	CandidatesPerSlot int   `koanf:"candidates_per_slot"`
	MaxRepairAttempts int   `koanf:"max_repair_attempts"`
	DefaultDays       int   `koanf:"default_days"`
	MaxDays           int   `koanf:"max_days"`
	Seed              int64 `koanf:"seed"`

	// BreakerEnabled wraps recommendation queries in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// DatabaseConfig selects the SQL store for the catalog and schedule history.
type DatabaseConfig struct {
	Enabled bool `koanf:"enabled"`

	// Driver is duckdb or sqlite.
	Driver    string `koanf:"driver"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"` // duckdb only
	Threads   int    `koanf:"threads"`    // duckdb only, 0 = runtime.NumCPU()
}

// PreferencesConfig controls the per-user preference store.
type PreferencesConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	InMemory   bool   `koanf:"in_memory"`
	MaxHistory int    `koanf:"max_history"`
}

// TrainingConfig controls the background training service.
type TrainingConfig struct {
	// Schedule is a cron expression; empty disables periodic training.
	Schedule           string        `koanf:"schedule"`
	OnStartup          bool          `koanf:"on_startup"`
	Timeout            time.Duration `koanf:"timeout"`
	MinTriggerInterval time.Duration `koanf:"min_trigger_interval"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// AnnotatorConfig points at optional keyword rule overrides.
type AnnotatorConfig struct {
	RulesPath string `koanf:"rules_path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
