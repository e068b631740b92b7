package scoring

const (
	// ViabilityBar is the score above which a window counts as viable:
	// a clear majority of its minutes stayed below the ceiling.
	ViabilityBar = 30.0
	// MinViableSamples is the number of viable windows that must be
	// exceeded before MV percentiles are reported. At or below this
	// count the estimate is undefined, never computed from thin data.
	MinViableSamples = 10
)

// MVEstimate is the maximum sustainable load estimated from the loads of
// viable windows, at increasing risk tolerance. P75 is the recommended
// operating point.
type MVEstimate struct {
	Defined     bool    `json:"defined"`
	SampleCount int     `json:"sampleCount"`
	P50         float64 `json:"p50"`
	P75         float64 `json:"p75"`
	// PHigh is the estimate at HighPercentile (90 or 95).
	PHigh          float64 `json:"pHigh"`
	HighPercentile float64 `json:"highPercentile"`
}

// EstimateMV filters windows to those that are viable under the given
// method and carry a load value, then reports load percentiles. With
// MinViableSamples or fewer such windows the estimate is undefined.
func EstimateMV(windows []WindowResult, method Method, highPct float64) MVEstimate {
	var loads []float64
	for _, w := range windows {
		if w.Load != nil && w.Score(method) > ViabilityBar {
			loads = append(loads, *w.Load)
		}
	}

	est := MVEstimate{SampleCount: len(loads), HighPercentile: highPct}
	if len(loads) <= MinViableSamples {
		return est
	}

	est.Defined = true
	est.P50 = Percentile(loads, 50)
	est.P75 = Percentile(loads, 75)
	est.PHigh = Percentile(loads, highPct)
	return est
}
