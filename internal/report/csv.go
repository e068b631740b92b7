// Package report serializes run results into the ';'-delimited CSV tables
// operators feed into their own tooling.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"mvcalc/internal/scoring"
)

// Status labels for the per-window table.
const (
	StatusGrouped   = "GROUPE"
	StatusDegrouped = "DEGROUPE"
)

var windowHeader = []string{
	"Date", "Window", "Load",
	"Score_M1", "Score_M2", "Score_A", "Score_B",
	"Avg_OCC", "Max_OCC", "P90_OCC",
	"Minutes_Degroup", "Status",
}

var dailyHeader = []string{
	"Date", "Score_M1", "Score_M2", "Score_A", "Score_B", "Minutes_Degroup",
}

// WriteWindowCSV writes the per-window result table. The Load cell is left
// empty for windows without a load value.
func WriteWindowCSV(w io.Writer, rep *scoring.RunReport) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(windowHeader); err != nil {
		return fmt.Errorf("writing window header: %w", err)
	}

	for _, win := range rep.Windows {
		load := ""
		if win.Load != nil {
			load = num(*win.Load)
		}
		status := StatusGrouped
		if win.Degrouped {
			status = StatusDegrouped
		}

		row := []string{
			win.Date, win.Label, load,
			num(win.ScoreM1), num(win.ScoreM2), num(win.ScoreA), num(win.ScoreB),
			num(win.MeanOcc), num(win.MaxOcc), num(win.P90Occ),
			strconv.Itoa(win.DegroupMinutes), status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing window row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDailyCSV writes the per-day aggregate table.
func WriteDailyCSV(w io.Writer, rep *scoring.RunReport) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(dailyHeader); err != nil {
		return fmt.Errorf("writing daily header: %w", err)
	}

	for _, day := range rep.Days {
		row := []string{
			day.Date,
			num(day.ScoreM1), num(day.ScoreM2), num(day.ScoreA), num(day.ScoreB),
			strconv.Itoa(day.DegroupMinutes),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing daily row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// num formats a score or statistic with two decimals, matching the
// original export precision.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
