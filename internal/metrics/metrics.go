// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealplan_recommendation_duration_seconds",
			Help:    "Time spent answering recommendation queries",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"meal_type"},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplan_recommendation_requests_total",
			Help: "Total recommendation queries by result",
		},
		[]string{"result"}, // result: "ok", "empty", "error"
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealplan_recommendation_cache_hits_total",
			Help: "Total recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealplan_recommendation_cache_misses_total",
			Help: "Total recommendation cache misses",
		},
	)

	// Schedule Metrics
	ScheduleGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealplan_schedule_generation_duration_seconds",
			Help:    "Time spent generating meal schedules",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScheduleDayPlans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealplan_schedule_day_plans_total",
			Help: "Total daily plans generated across all schedules",
		},
	)

	ScheduleRepairAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplan_schedule_repair_attempts_total",
			Help: "Total calorie repair attempts by outcome",
		},
		[]string{"outcome"}, // outcome: "replaced", "no_candidate", "error"
	)

	ScheduleOverBudgetPlans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealplan_schedule_over_budget_plans_total",
			Help: "Total daily plans left over the calorie ceiling after repair",
		},
	)

	ScheduleUnavailableSlots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplan_schedule_unavailable_slots_total",
			Help: "Total schedule slots with no recommendation available",
		},
		[]string{"meal_type"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealplan_training_duration_seconds",
			Help:    "Time spent building and persisting feature artifacts",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplan_training_runs_total",
			Help: "Total training runs by result",
		},
		[]string{"result"}, // result: "success", "failure", "skipped"
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealplan_catalog_meals",
			Help: "Number of meals in the loaded catalog",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealplan_vocabulary_terms",
			Help: "Number of TF-IDF vocabulary terms in the loaded model",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealplan_model_version",
			Help: "Artifact version currently served",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealplan_events_published_total",
			Help: "Total events published on the in-process bus",
		},
		[]string{"topic"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommendation records one recommendation query.
// mealType "" is reported as "any".
func RecordRecommendation(mealType string, results int, duration time.Duration, err error) {
	if mealType == "" {
		mealType = "any"
	}
	RecommendationDuration.WithLabelValues(mealType).Observe(duration.Seconds())

	switch {
	case err != nil:
		RecommendationRequests.WithLabelValues("error").Inc()
	case results == 0:
		RecommendationRequests.WithLabelValues("empty").Inc()
	default:
		RecommendationRequests.WithLabelValues("ok").Inc()
	}
}

// RecordRecommendCache records a cache lookup.
func RecordRecommendCache(hit bool) {
	if hit {
		RecommendationCacheHits.Inc()
	} else {
		RecommendationCacheMisses.Inc()
	}
}

// RecordSchedule records a generated schedule.
func RecordSchedule(days, overBudgetDays int, duration time.Duration) {
	ScheduleGenerationDuration.Observe(duration.Seconds())
	ScheduleDayPlans.Add(float64(days))
	if overBudgetDays > 0 {
		ScheduleOverBudgetPlans.Add(float64(overBudgetDays))
	}
}

// RecordRepairAttempt records one repair attempt outcome.
func RecordRepairAttempt(outcome string) {
	ScheduleRepairAttempts.WithLabelValues(outcome).Inc()
}

// RecordUnavailableSlot records a slot left empty.
func RecordUnavailableSlot(mealType string) {
	ScheduleUnavailableSlots.WithLabelValues(mealType).Inc()
}

// RecordTraining records a training run. A zero duration is not observed.
func RecordTraining(duration time.Duration, err error) {
	if err != nil {
		TrainingRuns.WithLabelValues("failure").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
	if duration > 0 {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// RecordTrainingSkipped records a training run refused because one was
// already in progress or the trigger was throttled.
func RecordTrainingSkipped() {
	TrainingRuns.WithLabelValues("skipped").Inc()
}

// SetModelInfo updates the gauges describing the served model.
func SetModelInfo(version, meals, vocabulary int) {
	ModelVersion.Set(float64(version))
	CatalogSize.Set(float64(meals))
	VocabularySize.Set(float64(vocabulary))
}

// RecordAPIRequest records API request metrics
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordBreakerRequest records a call through a named circuit breaker.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordBreakerTransition records a state change and updates the state gauge.
// States follow gobreaker's String() values.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordEventPublished records a published bus message.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}
