// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mealplan/internal/api"
	"github.com/tomtom215/mealplan/internal/config"
	"github.com/tomtom215/mealplan/internal/events"
	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/middleware"
	"github.com/tomtom215/mealplan/internal/preferences"
	"github.com/tomtom215/mealplan/internal/recommend"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
	"github.com/tomtom215/mealplan/internal/supervisor"
	"github.com/tomtom215/mealplan/internal/supervisor/services"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with background training",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), a.cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("model_dir", cfg.Model.Dir).
		Bool("database", cfg.Database.Enabled).
		Bool("preferences", cfg.Preferences.Enabled).
		Msg("starting mealplan server")

	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	var prefs *preferences.Store
	if cfg.Preferences.Enabled {
		if prefs, err = preferences.Open(&cfg.Preferences); err != nil {
			return err
		}
		defer func() {
			if err := prefs.Close(); err != nil {
				logging.Error().Err(err).Msg("error closing preference store")
			}
		}()
	}

	bus := events.NewBus(logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event bus")
		}
	}()

	rcfg := recommendConfig(cfg)
	holder := recommend.NewHolder(nil)
	reloader := events.NewReloader(bus, store, holder, rcfg, logger)
	if _, err := reloader.Reload(ctx, 0); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		logging.Warn().Msg("no stored model, serving 503 until training completes")
	}

	trainer := newTrainer(cfg, db, store)
	trainer.SetNotifier(bus)
	training, err := services.NewTrainingService(trainer, services.TrainingServiceConfig{
		Schedule:           cfg.Training.Schedule,
		OnStartup:          cfg.Training.OnStartup,
		Timeout:            cfg.Training.Timeout,
		MinTriggerInterval: cfg.Training.MinTriggerInterval,
		StartAfter:         reloader.Ready(),
	}, logger)
	if err != nil {
		return err
	}

	deps := api.Dependencies{
		Engine:    holder,
		Generator: newGenerator(cfg, holder, cfg.Schedule.Seed),
		Training:  training,
		Models:    store,
		Monitor:   middleware.NewPerformanceMonitor(1000, time.Second, logger),
		Limits:    api.LimitsFromConfig(cfg),
	}
	// Interface fields stay nil unless the store exists.
	if db != nil {
		deps.Schedules = db
	}
	if prefs != nil {
		deps.Preferences = prefs
	}

	router := api.NewRouter(api.NewHandler(deps),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.Add(supervisor.LayerModel, reloader)
	tree.Add(supervisor.LayerModel, training)
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	err = tree.Serve(ctx)
	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("services did not stop within the shutdown timeout")
	}
	if errors.Is(err, context.Canceled) {
		logging.Info().Msg("server stopped")
		return nil
	}
	return err
}
