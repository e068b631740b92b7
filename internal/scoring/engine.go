package scoring

import (
	"fmt"

	"mvcalc/internal/ingest"

	"github.com/rs/zerolog/log"
)

// Method names a scoring method.
type Method string

const (
	// MethodM1 is the sliding 5-minute local-average score.
	MethodM1 Method = "M1"
	// MethodM2 is the p90-based aggregate score.
	MethodM2 Method = "M2"
	// MethodA is the raw linear per-minute score.
	MethodA Method = "A"
	// MethodB is the three-zone score with a hard-decoupling penalty.
	MethodB Method = "B"
)

// Methods lists every scoring method in report order.
var Methods = []Method{MethodM1, MethodM2, MethodA, MethodB}

// MismatchPolicy decides what happens when the OCC and LOAD files carry
// different sector identifiers.
type MismatchPolicy int

const (
	// MismatchWarn records a warning and keeps going.
	MismatchWarn MismatchPolicy = iota
	// MismatchFail aborts the run.
	MismatchFail
)

// WindowResult is the score record for one (day, window) pair. It is
// produced once per run and never mutated.
type WindowResult struct {
	Date           string   `json:"date"`
	Label          string   `json:"window"`
	StartMinute    int      `json:"startMinute"`
	Load           *float64 `json:"load,omitempty"`
	ScoreM1        float64  `json:"scoreM1"`
	ScoreM2        float64  `json:"scoreM2"`
	ScoreA         float64  `json:"scoreA"`
	ScoreB         float64  `json:"scoreB"`
	MeanOcc        float64  `json:"meanOcc"`
	MaxOcc         float64  `json:"maxOcc"`
	P90Occ         float64  `json:"p90Occ"`
	DegroupMinutes int      `json:"degroupMinutes"`
	Degrouped      bool     `json:"degrouped"`
}

// Score returns the window's score under the given method.
func (w WindowResult) Score(m Method) float64 {
	switch m {
	case MethodM1:
		return w.ScoreM1
	case MethodM2:
		return w.ScoreM2
	case MethodB:
		return w.ScoreB
	default:
		return w.ScoreA
	}
}

// DaySummary aggregates a day's windows.
type DaySummary struct {
	Date           string  `json:"date"`
	ScoreM1        float64 `json:"scoreM1"`
	ScoreM2        float64 `json:"scoreM2"`
	ScoreA         float64 `json:"scoreA"`
	ScoreB         float64 `json:"scoreB"`
	DegroupMinutes int     `json:"degroupMinutes"`
}

// RunReport is the complete, immutable result of one engine run.
type RunReport struct {
	Sector     string                `json:"sector"`
	Thresholds Thresholds            `json:"thresholds"`
	Windows    []WindowResult        `json:"windows"`
	Days       []DaySummary          `json:"days"`
	MV         map[Method]MVEstimate `json:"mv,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Engine computes viability scores for one configuration. The zero value
// is not usable; fill Thresholds and Windows, the rest has defaults.
type Engine struct {
	Thresholds Thresholds
	Windows    WindowSpec
	// SmoothWidth is method 1's centered sub-window width in minutes
	// (default 5).
	SmoothWidth int
	// MVHighPercentile selects the upper MV estimate, 90 or 95
	// (default 90).
	MVHighPercentile float64
	Mismatch         MismatchPolicy
}

// Run scores every window of every day in occ, joining per-window loads
// from load when provided. It is a pure batch computation: the same inputs
// always produce the same report.
func (e Engine) Run(occ *ingest.OccTable, load *ingest.LoadTable) (*RunReport, error) {
	if occ == nil || len(occ.Days) == 0 {
		return nil, fmt.Errorf("no occupancy data")
	}
	if err := e.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if err := e.Windows.Validate(); err != nil {
		return nil, err
	}
	smooth := e.SmoothWidth
	if smooth == 0 {
		smooth = 5
	}
	highPct := e.MVHighPercentile
	if highPct == 0 {
		highPct = 90
	}

	report := &RunReport{
		Sector:     occ.Sector,
		Thresholds: e.Thresholds,
		Warnings:   append([]string(nil), occ.Warnings...),
	}

	if load != nil {
		report.Warnings = append(report.Warnings, load.Warnings...)
		if load.Sector != "" && occ.Sector != "" && load.Sector != occ.Sector {
			msg := fmt.Sprintf("sector mismatch: OCC has %q, LOAD has %q", occ.Sector, load.Sector)
			if e.Mismatch == MismatchFail {
				return nil, fmt.Errorf("%s", msg)
			}
			report.Warnings = append(report.Warnings, msg)
			log.Warn().Str("occ", occ.Sector).Str("load", load.Sector).Msg("sector mismatch")
		}
	}

	starts := e.Windows.Starts()
	for _, day := range occ.Days {
		var dayLoad ingest.DayLoad
		if load != nil {
			dayLoad = load.Days[day.Label]
		}

		summary := DaySummary{Date: day.Label}
		for _, start := range starts {
			window, err := ExtractWindow(day.Minutes[:], start, e.Windows.Length)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", day.Label, err)
			}

			label := e.Windows.Label(start)
			degroup := CountOverPeak(window, e.Thresholds.Peak)

			res := WindowResult{
				Date:           day.Label,
				Label:          label,
				StartMinute:    start,
				ScoreM1:        SlidingAverageScore(window, e.Thresholds, smooth),
				ScoreM2:        PercentileScore(window, e.Thresholds),
				ScoreA:         LinearScore(window, e.Thresholds),
				ScoreB:         ThreeZoneScore(window, e.Thresholds),
				MeanOcc:        Mean(window),
				MaxOcc:         Max(window),
				P90Occ:         Percentile(window, 90),
				DegroupMinutes: degroup,
				Degrouped:      degroup > 0,
			}
			if v, ok := dayLoad[label]; ok {
				res.Load = &v
			}

			summary.ScoreM1 += res.ScoreM1
			summary.ScoreM2 += res.ScoreM2
			summary.ScoreA += res.ScoreA
			summary.ScoreB += res.ScoreB
			summary.DegroupMinutes += res.DegroupMinutes

			report.Windows = append(report.Windows, res)
		}
		report.Days = append(report.Days, summary)
	}

	if load != nil {
		report.MV = make(map[Method]MVEstimate, len(Methods))
		for _, m := range Methods {
			report.MV[m] = EstimateMV(report.Windows, m, highPct)
		}
	}

	log.Debug().
		Int("days", len(report.Days)).
		Int("windows", len(report.Windows)).
		Str("sector", report.Sector).
		Msg("run complete")

	return report, nil
}
