package scoring

import (
	"math"
	"testing"
)

var testThresholds = Thresholds{Sustain: 20, Peak: 25, Tolerance: 1}

func constantWindow(n int, v float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = v
	}
	return w
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLinearScore(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		want   float64
	}{
		// ceiling = 21; 60 minutes at 22 each lose (22-21)
		{"ConstantOverCeiling", constantWindow(60, 22), -60},
		{"ConstantUnderCeiling", constantWindow(60, 15), 60},
		{"AtCeiling", constantWindow(60, 21), 60},
		{"Empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinearScore(tt.window, testThresholds); !almostEqual(got, tt.want) {
				t.Errorf("LinearScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinearScoreUnitContribution(t *testing.T) {
	// Every occupancy value at or below the ceiling contributes exactly +1.
	for _, occ := range []float64{0, 5, 20, 20.5, 21} {
		if got := LinearScore([]float64{occ}, testThresholds); got != 1 {
			t.Errorf("LinearScore([%v]) = %v, want 1", occ, got)
		}
	}
}

func TestThreeZoneScore(t *testing.T) {
	mixed := append(constantWindow(50, 15), constantWindow(10, 30)...)

	tests := []struct {
		name   string
		window []float64
		want   float64
	}{
		{"AllViable", constantWindow(60, 15), 60},
		// alert zone (21..25] is neutral
		{"AllAlertZone", constantWindow(60, 24), 0},
		// 50*(+1) + 10*(-2*(30-25)) = 50 - 100
		{"MixedWithDecoupling", mixed, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThreeZoneScore(tt.window, testThresholds); !almostEqual(got, tt.want) {
				t.Errorf("ThreeZoneScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThreeZoneScoreMonotonic(t *testing.T) {
	// Raising a single minute past PEAK must never increase the score.
	window := constantWindow(60, 15)
	prev := ThreeZoneScore(window, testThresholds)
	for _, v := range []float64{21, 24, 25, 25.5, 26, 30, 50} {
		window[7] = v
		got := ThreeZoneScore(window, testThresholds)
		if got > prev {
			t.Errorf("score increased from %v to %v when minute rose to %v", prev, got, v)
		}
		prev = got
	}
}

func TestSlidingAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		width  int
		want   float64
	}{
		// Constant series: every local mean equals the value itself.
		{"ConstantOverCeiling", constantWindow(60, 22), 5, -60},
		{"ConstantUnderCeiling", constantWindow(60, 15), 5, 60},
		{"WidthOne", constantWindow(10, 22), 1, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlidingAverageScore(tt.window, testThresholds, tt.width); !almostEqual(got, tt.want) {
				t.Errorf("SlidingAverageScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlidingAverageSmoothsSpike(t *testing.T) {
	// One spike at 31 surrounded by 11s: the 5-minute mean around the
	// spike is 15, under the ceiling, so method 1 does not penalize it
	// while the raw linear method does.
	window := constantWindow(60, 11)
	window[30] = 31

	m1 := SlidingAverageScore(window, testThresholds, 5)
	if m1 != 60 {
		t.Errorf("smoothed score = %v, want 60", m1)
	}
	if a := LinearScore(window, testThresholds); a >= m1 {
		t.Errorf("linear score %v should be below smoothed score %v", a, m1)
	}
}

func TestPercentileScore(t *testing.T) {
	spiky := append(constantWindow(54, 15), constantWindow(6, 30)...)

	tests := []struct {
		name   string
		window []float64
		want   float64
	}{
		{"WellUnderSustain", constantWindow(60, 15), 60},
		{"WithinTolerance", constantWindow(60, 20.5), 30},
		// p90 = 22, ceiling = 21
		{"OverCeiling", constantWindow(60, 22), -60},
		// 10% of minutes at 30 barely move the p90: window stays viable
		{"IsolatedSpikesDiscounted", spiky, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentileScore(tt.window, testThresholds); !almostEqual(got, tt.want) {
				t.Errorf("PercentileScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"Empty", nil, 90, 0},
		{"Single", []float64{7}, 90, 7},
		{"Median", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 50, 55},
		{"P75", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 75, 77.5},
		{"P90", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 90, 91},
		{"Zero", []float64{3, 1, 2}, 0, 1},
		{"Hundred", []float64{3, 1, 2}, 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.values, tt.p); !almostEqual(got, tt.want) {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPercentileOrderIndependent(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	shuffled := []float64{7, 2, 10, 4, 1, 9, 3, 8, 5, 6}

	for _, p := range []float64{10, 50, 75, 90, 95} {
		a := Percentile(sorted, p)
		b := Percentile(shuffled, p)
		if !almostEqual(a, b) {
			t.Errorf("Percentile(%v): sorted %v != shuffled %v", p, a, b)
		}
	}

	// The input must not be reordered as a side effect.
	if shuffled[0] != 7 || shuffled[9] != 6 {
		t.Error("Percentile mutated its input")
	}
}

func TestCountOverPeak(t *testing.T) {
	window := []float64{24, 25, 25.5, 26, 30}
	// strictly greater than PEAK only
	if got := CountOverPeak(window, 25); got != 3 {
		t.Errorf("CountOverPeak() = %d, want 3", got)
	}
	if got := CountOverPeak(nil, 25); got != 0 {
		t.Errorf("CountOverPeak(nil) = %d, want 0", got)
	}
}
