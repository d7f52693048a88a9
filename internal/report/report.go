// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package report

import (
	"bufio"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tomtom215/mealplan/internal/catalog"
	"github.com/tomtom215/mealplan/internal/schedule"
)

// ErrNilSchedule is returned when a nil schedule is rendered.
var ErrNilSchedule = errors.New("nil schedule")

// Labels used in rendered output.
const (
	LabelSchedule    = "Jadwal"
	LabelMenu        = "Menu"
	LabelCalories    = "Kalori"
	LabelProtein     = "Protein"
	LabelUnavailable = "Tidak ada rekomendasi yang tersedia"
	LabelTotal       = "Total"
)

var indonesianDays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// htmlTemplate lays dates out as columns and meal types as rows.
var htmlTemplate = template.Must(template.New("schedule").Funcs(template.FuncMap{
	"formatNumber": formatNumber,
}).Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; }
th, td { border: 1px solid #ccc; padding: 6px 10px; vertical-align: top; }
td.empty { color: #999; font-style: italic; }
tr.total td { font-weight: bold; }
td.over { color: #b00020; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table class="schedule">
<thead>
<tr><th></th>{{range .Columns}}<th>{{.Date}}</th>{{end}}</tr>
</thead>
<tbody>
{{- range $row := .Rows}}
<tr><th>{{$row.MealType}}</th>{{range $row.Cells}}{{if .}}<td>{{.Name}}<br>{{formatNumber .Calories}} kcal<br>{{formatNumber .Protein}} g {{$.ProteinLabel}}</td>{{else}}<td class="empty">{{$.Unavailable}}</td>{{end}}{{end}}</tr>
{{- end}}
<tr class="total"><th>{{.TotalLabel}} {{.CaloriesLabel}}</th>{{range .Columns}}<td{{if not .WithinBudget}} class="over"{{end}}>{{formatNumber .TotalCalories}} kcal</td>{{end}}</tr>
</tbody>
</table>
</body>
</html>
`))

type htmlRow struct {
	MealType string
	Cells    []*catalog.MealEntry
}

type htmlColumn struct {
	Date          string
	TotalCalories float64
	WithinBudget  bool
}

type htmlPage struct {
	Title         string
	Columns       []htmlColumn
	Rows          []htmlRow
	Unavailable   string
	TotalLabel    string
	CaloriesLabel string
	ProteinLabel  string
}

// WriteHTML renders s as an HTML table of date by meal type.
func WriteHTML(w io.Writer, s *schedule.Schedule) error {
	if s == nil {
		return ErrNilSchedule
	}

	page := htmlPage{
		Title:         LabelSchedule + " " + LabelMenu,
		Columns:       buildColumns(s),
		Rows:          buildRows(s),
		Unavailable:   LabelUnavailable,
		TotalLabel:    LabelTotal,
		CaloriesLabel: LabelCalories,
		ProteinLabel:  LabelProtein,
	}
	if err := htmlTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// WriteHTMLFile renders s to path, creating parent directories.
func WriteHTMLFile(path string, s *schedule.Schedule) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteHTML(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteText renders s as the console listing.
func WriteText(w io.Writer, s *schedule.Schedule) error {
	if s == nil {
		return ErrNilSchedule
	}

	bw := bufio.NewWriter(w)
	for i := range s.Days {
		day := &s.Days[i]
		fmt.Fprintf(bw, "\n=== %s %s ===\n", LabelSchedule, longDate(day))
		for j := range day.Slots {
			slot := &day.Slots[j]
			fmt.Fprintf(bw, "\n%s:\n", slot.MealType)
			if !slot.Available() {
				fmt.Fprintf(bw, "  - %s\n", LabelUnavailable)
				continue
			}
			fmt.Fprintf(bw, "  - %s: %s\n", LabelMenu, slot.Meal.Name)
			fmt.Fprintf(bw, "  - %s: %s kcal\n", LabelCalories, formatNumber(slot.Meal.Calories))
			fmt.Fprintf(bw, "  - %s: %sg\n", LabelProtein, formatNumber(slot.Meal.Protein))
		}
		fmt.Fprintf(bw, "\n%s %s: %s kcal\n", LabelTotal, LabelCalories, formatNumber(day.TotalCalories))
	}
	return bw.Flush()
}

func buildColumns(s *schedule.Schedule) []htmlColumn {
	cols := make([]htmlColumn, len(s.Days))
	for i := range s.Days {
		cols[i] = htmlColumn{
			Date:          s.Days[i].DateString(),
			TotalCalories: s.Days[i].TotalCalories,
			WithinBudget:  s.Days[i].WithinBudget,
		}
	}
	return cols
}

func buildRows(s *schedule.Schedule) []htmlRow {
	var order []string
	seen := make(map[string]bool)
	for i := range s.Days {
		for j := range s.Days[i].Slots {
			mt := s.Days[i].Slots[j].MealType
			if !seen[mt] {
				seen[mt] = true
				order = append(order, mt)
			}
		}
	}

	rows := make([]htmlRow, len(order))
	for r, mt := range order {
		rows[r] = htmlRow{MealType: mt, Cells: make([]*catalog.MealEntry, len(s.Days))}
		for d := range s.Days {
			rows[r].Cells[d] = s.Days[d].Meal(mt)
		}
	}
	return rows
}

// longDate formats a day as "Senin, 19 Oktober 2026".
func longDate(day *schedule.DailySchedule) string {
	t := day.Date
	return fmt.Sprintf("%s, %02d %s %d", indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// formatNumber prints the shortest decimal form, so 350 prints as "350".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
