// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package metrics provides Prometheus metrics for the recommender and scheduler.

All collectors are registered on the default registry with promauto and are
exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation:
  - mealplan_recommendation_duration_seconds (histogram, meal_type)
  - mealplan_recommendation_requests_total (counter, result)
  - mealplan_recommendation_cache_hits_total / _misses_total (counters)

Scheduling:
  - mealplan_schedule_generation_duration_seconds (histogram)
  - mealplan_schedule_day_plans_total (counter)
  - mealplan_schedule_repair_attempts_total (counter, outcome)
  - mealplan_schedule_over_budget_plans_total (counter)
  - mealplan_schedule_unavailable_slots_total (counter, meal_type)

Training:
  - mealplan_training_duration_seconds (histogram)
  - mealplan_training_runs_total (counter, result)
  - mealplan_catalog_meals, mealplan_vocabulary_terms, mealplan_model_version (gauges)

HTTP, database, circuit breaker:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - db_query_duration_seconds, db_query_errors_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

# Usage

Callers use the Record* helpers rather than touching collectors directly:

	start := time.Now()
	meals, err := engine.Recommend(ctx, history, 5, "Sarapan")
	metrics.RecordRecommendation("Sarapan", len(meals), time.Since(start), err)

# Thread Safety

Prometheus collectors are safe for concurrent use.
*/
package metrics
