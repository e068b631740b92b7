package scoring

import "testing"

func viableWindows(loads []float64, score float64) []WindowResult {
	windows := make([]WindowResult, len(loads))
	for i := range loads {
		l := loads[i]
		windows[i] = WindowResult{ScoreA: score, Load: &l}
	}
	return windows
}

func TestEstimateMVInsufficientSamples(t *testing.T) {
	// Exactly 10 viable windows: more than 10 are required, so the
	// estimate must be reported as undefined, not computed.
	loads := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	est := EstimateMV(viableWindows(loads, 60), MethodA, 90)

	if est.Defined {
		t.Fatal("MV defined with only 10 viable windows")
	}
	if est.SampleCount != 10 {
		t.Errorf("SampleCount = %d, want 10", est.SampleCount)
	}
}

func TestEstimateMV(t *testing.T) {
	loads := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110}
	est := EstimateMV(viableWindows(loads, 60), MethodA, 90)

	if !est.Defined {
		t.Fatal("MV undefined with 11 viable windows")
	}
	if est.SampleCount != 11 {
		t.Errorf("SampleCount = %d, want 11", est.SampleCount)
	}
	if !almostEqual(est.P50, 60) {
		t.Errorf("P50 = %v, want 60", est.P50)
	}
	if !almostEqual(est.P75, 85) {
		t.Errorf("P75 = %v, want 85", est.P75)
	}
	if !almostEqual(est.PHigh, 100) {
		t.Errorf("PHigh = %v, want 100", est.PHigh)
	}
	if est.HighPercentile != 90 {
		t.Errorf("HighPercentile = %v, want 90", est.HighPercentile)
	}
}

func TestEstimateMVFilters(t *testing.T) {
	load := 42.0
	windows := []WindowResult{
		{ScoreA: 60, Load: &load},
		{ScoreA: 60},               // no load: excluded
		{ScoreA: 30, Load: &load},  // at the bar, not above: excluded
		{ScoreA: -10, Load: &load}, // not viable
	}

	est := EstimateMV(windows, MethodA, 90)
	if est.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", est.SampleCount)
	}
}

func TestEstimateMVMethodSelection(t *testing.T) {
	load := 42.0
	windows := []WindowResult{{ScoreA: 60, ScoreB: -10, Load: &load}}

	if got := EstimateMV(windows, MethodA, 90).SampleCount; got != 1 {
		t.Errorf("method A SampleCount = %d, want 1", got)
	}
	if got := EstimateMV(windows, MethodB, 90).SampleCount; got != 0 {
		t.Errorf("method B SampleCount = %d, want 0", got)
	}
}
