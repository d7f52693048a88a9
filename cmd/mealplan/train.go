// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/recommend/storage"
)

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Build features from the catalog and store a new model version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg

			store, err := storage.NewStore(cfg.Model.Dir)
			if err != nil {
				return fmt.Errorf("open model store: %w", err)
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			art, err := newTrainer(cfg, db, store).Train(ctx)
			if err != nil {
				return err
			}

			// Keep the database copy of a file-based catalog current.
			if db != nil && !cfg.Catalog.FromDatabase {
				if err := db.SaveCatalog(ctx, art.Catalog); err != nil {
					logging.Warn().Err(err).Msg("failed to sync catalog to database")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trained model v%d: %d meals, %d terms, %d features\n",
				art.Version, art.Catalog.Len(), art.Vectorizer.Dim(), art.Dim())
			return nil
		},
	}
}
