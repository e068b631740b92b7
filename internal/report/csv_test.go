package report

import (
	"bytes"
	"strings"
	"testing"

	"mvcalc/internal/scoring"
)

func sampleReport() *scoring.RunReport {
	load := 42.0
	return &scoring.RunReport{
		Sector: "LFEE5R",
		Windows: []scoring.WindowResult{
			{
				Date: "01/01/2024", Label: "6:00-7:00", Load: &load,
				ScoreM1: 60, ScoreM2: 30, ScoreA: 59.5, ScoreB: 60,
				MeanOcc: 14.25, MaxOcc: 22, P90Occ: 18,
			},
			{
				Date: "01/01/2024", Label: "7:00-8:00",
				ScoreM1: -12.5, ScoreM2: -60, ScoreA: -20, ScoreB: -50,
				MeanOcc: 23, MaxOcc: 31, P90Occ: 28,
				DegroupMinutes: 10, Degrouped: true,
			},
		},
		Days: []scoring.DaySummary{
			{Date: "01/01/2024", ScoreM1: 47.5, ScoreM2: -30, ScoreA: 39.5, ScoreB: 10, DegroupMinutes: 10},
		},
	}
}

func TestWriteWindowCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWindowCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteWindowCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}

	wantHeader := "Date;Window;Load;Score_M1;Score_M2;Score_A;Score_B;Avg_OCC;Max_OCC;P90_OCC;Minutes_Degroup;Status"
	if lines[0] != wantHeader {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "01/01/2024;6:00-7:00;42.00;60.00;30.00;59.50;60.00;14.25;22.00;18.00;0;GROUPE" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// No load value: empty cell, and the decoupled status label
	if lines[2] != "01/01/2024;7:00-8:00;;-12.50;-60.00;-20.00;-50.00;23.00;31.00;28.00;10;DEGROUPE" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteDailyCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDailyCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteDailyCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if lines[0] != "Date;Score_M1;Score_M2;Score_A;Score_B;Minutes_Degroup" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "01/01/2024;47.50;-30.00;39.50;10.00;10" {
		t.Errorf("row = %q", lines[1])
	}
}
