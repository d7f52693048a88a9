// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package logging provides the process-wide zerolog logger for mealplan.
//
// The global logger is usable before Init is called (JSON to stderr at info
// level) and is reconfigured from config.LoggingConfig at startup:
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("path", p).Msg("Catalog loaded")
//
// Long-lived components take a zerolog.Logger by value and tag it with
// their name:
//
//	engine, err := recommend.NewEngine(art, cfg, logging.WithComponent("recommend"))
//
// Request-scoped logging carries the request id set by the API middleware:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("schedule not persisted")
//
// # Adapters
//
//   - NewSlogLogger bridges log/slog (used by sutureslog) to zerolog.
//   - NewWatermillLogger implements watermill.LoggerAdapter for the event bus.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
