// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package api serves the recommender and schedule generator over HTTP.

Routing uses chi with go-chi/cors and per-IP go-chi/httprate limits. Every
JSON endpoint answers with the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "UNKNOWN_MEAL_TYPE", "message": "..."}, "meta": {...}}

Endpoints:

	GET    /api/v1/health                      readiness, model version, store status
	GET    /api/v1/health/live                 liveness
	GET    /api/v1/health/ready                503 until a model is loaded
	GET    /api/v1/meals                       catalog page (?type=&limit=&offset=)
	GET    /api/v1/meals/{id}                  one meal
	GET    /api/v1/meals/{id}/similar          meals similar to one meal (?n=&type=)
	POST   /api/v1/recommendations             {history, n, meal_type}
	POST   /api/v1/schedules                   {user_id, history, max_calories, days}
	GET    /api/v1/schedules                   stored schedules (?limit=)
	GET    /api/v1/schedules/{id}              one stored schedule
	GET    /api/v1/schedules/{id}/report       HTML or text rendering (?format=html|text)
	DELETE /api/v1/schedules/{id}              remove a stored schedule
	GET    /api/v1/users/{userID}/preferences  stored preferences
	PUT    /api/v1/users/{userID}/preferences  replace preferences
	DELETE /api/v1/users/{userID}/preferences  remove preferences
	POST   /api/v1/users/{userID}/history      append consumed meals
	POST   /api/v1/admin/train                 queue a retrain
	GET    /api/v1/admin/train                 trainer status
	GET    /api/v1/admin/models                stored artifact versions
	GET    /api/v1/admin/stats                 engine counters
	GET    /api/v1/admin/performance           per-route latency percentiles
	DELETE /api/v1/admin/cache                 clear the recommendation cache
	POST   /mcp/tools/call                     MCP tools recommend_meals and generate_schedule
	GET    /metrics                            Prometheus

Schedule storage, preferences and training are optional dependencies; their
endpoints answer 501 NOT_ENABLED when the dependency is nil.
*/
package api
