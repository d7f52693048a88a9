// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

// Package config loads mealplan configuration with Koanf v2.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
//     or /etc/mealplan/config.yaml
//  3. Environment variables listed in envTransformFunc
//
// Unknown environment variables are ignored. Comma-separated values are
// accepted for slice fields such as SECURITY_CORS_ORIGINS.
//
// Example config.yaml:
//
//	catalog:
//	  path: data/processed/meals.csv
//	model:
//	  dir: models
//	  keep_versions: 3
//	schedule:
//	  default_days: 7
//	database:
//	  enabled: true
//	  driver: sqlite
//	  path: data/mealplan.db
//	training:
//	  schedule: "@daily"
//	server:
//	  port: 8080
package config
