// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when the supervisor stops it.
  - TrainingService: retrains the model on startup, on a cron schedule
    (robfig/cron), and on demand through Trigger, which is throttled with
    golang.org/x/time/rate. It implements the API's TrainingController.

The model reloader in package events is already a suture.Service and is
added to the tree directly.
*/
package services
