package scoring

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Max returns the largest value, 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between order statistics. The input is not mutated.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	if p <= 0 {
		return temp[0]
	}
	if p >= 100 {
		return temp[len(temp)-1]
	}

	rank := p / 100 * float64(len(temp)-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= len(temp) {
		return temp[lo]
	}
	return temp[lo] + frac*(temp[lo+1]-temp[lo])
}

// SlidingAverageScore implements scoring method 1: each minute contributes
// based on the mean occupancy of a centered sub-window of the given width
// (clipped at the window boundaries, no wraparound). A local mean at or
// below the ceiling earns +1; above it, the overshoot is subtracted.
func SlidingAverageScore(window []float64, th Thresholds, width int) float64 {
	if width < 1 {
		width = 1
	}
	ceiling := th.Ceiling()
	half := width / 2

	var score float64
	for i := range window {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(window) {
			hi = len(window)
		}
		avg := Mean(window[lo:hi])

		if avg <= ceiling {
			score++
		} else {
			score -= avg - ceiling
		}
	}
	return score
}

// PercentileScore implements scoring method 2: the whole window collapses
// to one score derived from its 90th percentile, so isolated spikes in at
// most 10% of the minutes do not penalize the window.
func PercentileScore(window []float64, th Thresholds) float64 {
	p90 := Percentile(window, 90)

	switch {
	case p90 <= th.Sustain:
		return 60
	case p90 <= th.Ceiling():
		return 30
	default:
		return -60 * (p90 - th.Ceiling())
	}
}

// LinearScore implements scoring method A: raw per-minute scoring with no
// smoothing. A minute at or below the ceiling earns +1, above it the
// overshoot is subtracted.
func LinearScore(window []float64, th Thresholds) float64 {
	ceiling := th.Ceiling()

	var score float64
	for _, occ := range window {
		if occ <= ceiling {
			score++
		} else {
			score -= occ - ceiling
		}
	}
	return score
}

// ThreeZoneScore implements scoring method B: minutes at or below the
// ceiling earn +1, minutes in the alert zone (ceiling..PEAK] are neutral,
// and minutes past PEAK pay a double-weighted penalty.
func ThreeZoneScore(window []float64, th Thresholds) float64 {
	ceiling := th.Ceiling()

	var score float64
	for _, occ := range window {
		switch {
		case occ <= ceiling:
			score++
		case occ <= th.Peak:
			// alert zone: neither rewarded nor punished
		default:
			score -= 2 * (occ - th.Peak)
		}
	}
	return score
}

// CountOverPeak returns the number of minutes strictly above PEAK, i.e.
// the minutes where mandatory sector splitting applies.
func CountOverPeak(window []float64, peak float64) int {
	count := 0
	for _, occ := range window {
		if occ > peak {
			count++
		}
	}
	return count
}
