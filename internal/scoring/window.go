package scoring

import "fmt"

// MinutesPerDay is the fixed length of a daily occupancy series.
const MinutesPerDay = 1440

// Thresholds holds the operator-configured occupancy limits for one run.
type Thresholds struct {
	Sustain   float64 `json:"sustain"`
	Peak      float64 `json:"peak"`
	Tolerance float64 `json:"tolerance"`
}

// Ceiling returns the viable occupancy ceiling (SUSTAIN + tolerance).
func (t Thresholds) Ceiling() float64 {
	return t.Sustain + t.Tolerance
}

// Validate rejects negative threshold values.
func (t Thresholds) Validate() error {
	if t.Sustain < 0 || t.Peak < 0 || t.Tolerance < 0 {
		return fmt.Errorf("thresholds must be non-negative: sustain=%v peak=%v tolerance=%v",
			t.Sustain, t.Peak, t.Tolerance)
	}
	return nil
}

// WindowSpec defines how a day is cut into analysis windows, in minutes.
// Hourly analysis is {Length: 60, Stride: 60}; the sliding variant keeps
// 60-minute windows but advances by 20 minutes.
type WindowSpec struct {
	Length int `json:"length"`
	Stride int `json:"stride"`
}

var (
	// HourlyWindows cuts the day into 24 fixed hours.
	HourlyWindows = WindowSpec{Length: 60, Stride: 60}
	// SlidingWindows advances a one-hour window every 20 minutes.
	SlidingWindows = WindowSpec{Length: 60, Stride: 20}
)

// Validate rejects specs that cannot tile a daily series.
func (w WindowSpec) Validate() error {
	if w.Length <= 0 || w.Length > MinutesPerDay {
		return fmt.Errorf("window length must be in 1..%d, got %d", MinutesPerDay, w.Length)
	}
	if w.Stride <= 0 {
		return fmt.Errorf("window stride must be positive, got %d", w.Stride)
	}
	return nil
}

// Starts returns the start minutes of every window in a day, in order.
func (w WindowSpec) Starts() []int {
	var starts []int
	for s := 0; s < MinutesPerDay; s += w.Stride {
		starts = append(starts, s)
	}
	return starts
}

// Label renders the window starting at the given minute in the same form
// the LOAD file uses for its column headers, e.g. "6:00-7:00" or "6:20-7:20".
func (w WindowSpec) Label(start int) string {
	end := (start + w.Length) % MinutesPerDay
	return fmt.Sprintf("%d:%02d-%d:%02d", start/60, start%60, end/60, end%60)
}

// ExtractWindow returns the contiguous sub-sequence of length minutes
// starting at start. A window that runs past the end of the series wraps
// around to the head of the same series (circular indexing): windows never
// borrow data from a different day.
func ExtractWindow(minutes []float64, start, length int) ([]float64, error) {
	n := len(minutes)
	if n == 0 {
		return nil, fmt.Errorf("empty series")
	}
	if length <= 0 || length > n {
		return nil, fmt.Errorf("window length must be in 1..%d, got %d", n, length)
	}
	if start < 0 {
		return nil, fmt.Errorf("window start must be non-negative, got %d", start)
	}

	out := make([]float64, length)
	for i := 0; i < length; i++ {
		out[i] = minutes[(start+i)%n]
	}
	return out, nil
}
