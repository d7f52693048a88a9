// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		n        int
		mealType string
	)

	cmd := &cobra.Command{
		Use:   "recommend [MEAL_ID...]",
		Short: "Print meals similar to the given history",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := parseIDs(args)
			if err != nil {
				return err
			}
			if n == 0 {
				n = a.cfg.Recommend.DefaultN
			}

			engine, err := loadOrTrainEngine(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			results, err := engine.RecommendScored(cmd.Context(), history, n, mealType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no recommendations available")
				return nil
			}
			for i, r := range results {
				fmt.Fprintf(out, "%2d. [%d] %s (%s) %.0f kcal, score %.3f\n",
					i+1, r.Meal.ID, r.Meal.Name, r.Meal.Type, r.Meal.Calories, r.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 0, "number of recommendations (default from config)")
	cmd.Flags().StringVarP(&mealType, "type", "t", "", "restrict to a meal type, e.g. \"Makan Siang\"")
	return cmd
}

// parseIDs converts meal id arguments.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid meal id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
