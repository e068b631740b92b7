package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mvcalc/internal/ingest"
	"mvcalc/internal/report"
	"mvcalc/internal/scoring"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	occPath      string
	loadPath     string
	outDir       string
	sustain      float64
	peak         float64
	tolerance    float64
	slidingMode  bool
	strictSector bool
	highPct      float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one batch scoring pass and write the CSV tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := scoring.Engine{
			Thresholds:       cfg.Thresholds,
			Windows:          scoring.HourlyWindows,
			MVHighPercentile: highPct,
		}
		if cmd.Flags().Changed("sustain") {
			eng.Thresholds.Sustain = sustain
		}
		if cmd.Flags().Changed("peak") {
			eng.Thresholds.Peak = peak
		}
		if cmd.Flags().Changed("tolerance") {
			eng.Thresholds.Tolerance = tolerance
		}
		if slidingMode {
			eng.Windows = scoring.SlidingWindows
		}
		if strictSector {
			eng.Mismatch = scoring.MismatchFail
		}

		occ, err := readOcc(occPath)
		if err != nil {
			return err
		}

		var load *ingest.LoadTable
		if loadPath != "" {
			if load, err = readLoad(loadPath); err != nil {
				return err
			}
		}

		rep, err := eng.Run(occ, load)
		if err != nil {
			return err
		}

		dir := outDir
		if dir == "" {
			dir = cfg.OutDir
		}
		stamp := time.Now().Format("20060102")
		windowsPath := filepath.Join(dir, fmt.Sprintf("mv_windows_%s_%s.csv", rep.Sector, stamp))
		dailyPath := filepath.Join(dir, fmt.Sprintf("mv_daily_%s_%s.csv", rep.Sector, stamp))

		if err := writeCSV(windowsPath, rep, report.WriteWindowCSV); err != nil {
			return err
		}
		if err := writeCSV(dailyPath, rep, report.WriteDailyCSV); err != nil {
			return err
		}

		logSummary(rep)
		log.Info().Str("windows", windowsPath).Str("daily", dailyPath).Msg("CSV tables written")
		return nil
	},
}

func readOcc(path string) (*ingest.OccTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OCC file: %w", err)
	}
	defer f.Close()

	table, err := ingest.ParseOcc(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	log.Info().Str("sector", table.Sector).Int("days", len(table.Days)).Msg("OCC loaded")
	return table, nil
}

func readLoad(path string) (*ingest.LoadTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening LOAD file: %w", err)
	}
	defer f.Close()

	table, err := ingest.ParseLoad(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	log.Info().
		Str("sector", table.Sector).
		Int("days", len(table.Days)).
		Stringer("windows", table.Kind).
		Msg("LOAD loaded")
	return table, nil
}

func writeCSV(path string, rep *scoring.RunReport, write func(w io.Writer, rep *scoring.RunReport) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func logSummary(rep *scoring.RunReport) {
	viable := 0
	degrouped := 0
	degroupMinutes := 0
	for _, w := range rep.Windows {
		if w.ScoreA > 0 {
			viable++
		}
		if w.Degrouped {
			degrouped++
		}
		degroupMinutes += w.DegroupMinutes
	}

	log.Info().
		Str("sector", rep.Sector).
		Int("days", len(rep.Days)).
		Int("windows", len(rep.Windows)).
		Int("viableWindows", viable).
		Int("degroupedWindows", degrouped).
		Int("degroupMinutes", degroupMinutes).
		Msg("scoring summary")

	for _, w := range rep.Warnings {
		log.Warn().Msg(w)
	}

	for _, m := range scoring.Methods {
		est, ok := rep.MV[m]
		if !ok {
			continue
		}
		if !est.Defined {
			log.Info().
				Str("method", string(m)).
				Int("samples", est.SampleCount).
				Msg("MV undefined: not enough viable windows")
			continue
		}
		log.Info().
			Str("method", string(m)).
			Int("samples", est.SampleCount).
			Float64("p50", est.P50).
			Float64("p75", est.P75).
			Float64(fmt.Sprintf("p%.0f", est.HighPercentile), est.PHigh).
			Msg("MV estimate (aircraft/hour), P75 recommended")
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&occPath, "occ", "", "path to the OCC CSV (required)")
	analyzeCmd.Flags().StringVar(&loadPath, "load", "", "path to the LOAD CSV (optional)")
	analyzeCmd.Flags().StringVar(&outDir, "out", "", "output directory for CSV tables (default: config output dir)")
	analyzeCmd.Flags().Float64Var(&sustain, "sustain", 20.0, "SUSTAIN threshold (av/min)")
	analyzeCmd.Flags().Float64Var(&peak, "peak", 25.0, "PEAK (dégroupement) threshold (av/min)")
	analyzeCmd.Flags().Float64Var(&tolerance, "tolerance", 1.0, "tolerance above SUSTAIN (av)")
	analyzeCmd.Flags().BoolVar(&slidingMode, "sliding", false, "use 20-minute sliding windows instead of fixed hours")
	analyzeCmd.Flags().BoolVar(&strictSector, "strict-sector", false, "abort on OCC/LOAD sector mismatch instead of warning")
	analyzeCmd.Flags().Float64Var(&highPct, "mv-high-percentile", 90, "upper MV percentile (90 or 95)")
	_ = analyzeCmd.MarkFlagRequired("occ")

	rootCmd.AddCommand(analyzeCmd)
}
