// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/mealplan/internal/logging"
)

var (
	// ErrNotFound is returned when a schedule id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnsupportedDriver is returned for a driver other than duckdb or sqlite.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
