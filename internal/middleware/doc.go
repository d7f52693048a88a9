// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package middleware provides chi-compatible HTTP middleware for the API.

Key Components:

  - RequestID: X-Request-ID propagation into the response and the logging context
  - PrometheusMetrics: request counter, latency histogram and in-flight gauge
  - PerformanceMonitor: sliding window of recent request latencies with
    per-route percentiles, served by the admin performance endpoint

Metrics and the performance monitor label requests by chi route pattern
(for example /api/v1/meals/{id}) rather than the raw path, so label
cardinality stays bounded by the number of routes.

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)
*/
package middleware
