// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every line written by the global logger.
const ServiceName = "mealplan"

// Config holds logging configuration. It mirrors config.LoggingConfig plus
// the knobs tests need.
type Config struct {
	// Level is one of trace, debug, info, warn, error, fatal, panic, disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to each line.
	Caller bool

	// Timestamp enables the "time" field.
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns JSON at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// ConfigFor fills the operator-facing settings into DefaultConfig.
func ConfigFor(level, format string, caller bool) Config {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	cfg.Caller = caller
	return cfg
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // the logger must work before Init runs
func init() {
	Init(DefaultConfig())
}

// Init rebuilds the global logger and sets the global level. It is safe to
// call more than once.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	l := build(cfg)
	global.Store(&l)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).With().Str("service", ServiceName)
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// parseLevel accepts zerolog's level names plus "warning". Empty and
// unknown values fall back to info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// Replace installs l as the global logger and returns a func that restores
// the previous logger and level.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Replace(l zerolog.Logger) (restore func()) {
	prev := global.Swap(&l)
	prevLevel := zerolog.GlobalLevel()
	return func() {
		global.Store(prev)
		zerolog.SetGlobalLevel(prevLevel)
	}
}

// Debug starts a debug-level message on the global logger.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info-level message on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn-level message on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error-level message on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// WithComponent returns a child of the global logger tagged with component.
//
//	logger := logging.WithComponent("trainer")
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}

// NewTestLogger returns a JSON logger writing to w without the service
// field, for asserting on output in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
