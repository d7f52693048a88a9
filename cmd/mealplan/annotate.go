// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/catalog/annotate"
)

func newAnnotateCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "annotate RAW.csv",
		Short: "Enrich a raw nutrition table with meal types, ingredients, tags and fiber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := annotate.DefaultRules()
			if path := a.cfg.Annotator.RulesPath; path != "" {
				var err error
				if rules, err = annotate.LoadRules(path); err != nil {
					return err
				}
			}

			cat, err := annotate.New(rules).AnnotateFile(args[0])
			if err != nil {
				return err
			}
			if err := writeCatalogFile(output, cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "annotated %d meals into %s\n", cat.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "data/processed/meals.json", "output file (.json or .csv)")
	return cmd
}

// writeCatalogFile writes CSV for a .csv path and JSON otherwise.
func writeCatalogFile(path string, cat *catalog.Catalog) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	var write func(io.Writer, *catalog.Catalog) error = catalog.WriteJSON
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		write = catalog.WriteCSV
	}
	if err := write(f, cat); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
