// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mealplan/internal/logging"
	"github.com/tomtom215/mealplan/internal/report"
	"github.com/tomtom215/mealplan/internal/schedule"
)

func newScheduleCmd(a *app) *cobra.Command {
	var (
		history     []int64
		maxCalories float64
		days        int
		htmlPath    string
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a multi-day meal schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if seed == 0 {
				seed = cfg.Schedule.Seed
			}

			engine, err := loadOrTrainEngine(ctx, cfg)
			if err != nil {
				return err
			}

			s, err := newGenerator(cfg, engine, seed).GenerateSchedule(ctx,
				schedule.Preferences{History: history, MaxCalories: maxCalories}, days)
			if err != nil {
				return err
			}

			if err := report.WriteText(cmd.OutOrStdout(), s); err != nil {
				return err
			}
			if htmlPath != "" {
				if err := report.WriteHTMLFile(htmlPath, s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nschedule saved to %s\n", htmlPath)
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer closeDatabase(db)
			if db != nil {
				if err := db.SaveSchedule(ctx, s); err != nil {
					logging.Warn().Err(err).Str("schedule_id", s.ID).Msg("failed to persist schedule")
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&history, "history", []int64{45, 120, 300}, "previously consumed meal ids")
	cmd.Flags().Float64Var(&maxCalories, "max-calories", 2000, "daily calorie ceiling, 0 for none")
	cmd.Flags().IntVar(&days, "days", 7, "number of days")
	cmd.Flags().StringVar(&htmlPath, "html", "reports/meal_schedule.html", "HTML report path, empty to skip")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for slot selection (default from config)")
	return cmd
}
