package vacuum

import "math"

// BasePressureResult holds the base-pressure estimate together with the
// rolling sequences it was derived from, so callers can overlay them on a
// plot without recomputing.
type BasePressureResult struct {
	// BasePressure is the estimated long-run floor pressure. NaN only when
	// the input contains no finite sample.
	BasePressure float64 `json:"basePressure"`

	// MostStableIndex is the sample index of the smallest rolling standard
	// deviation, or -1 when the rolling statistic was undefined everywhere
	// and the estimate fell back to the global minimum.
	MostStableIndex int `json:"mostStableIndex"`

	// RollingMin and RollingStd are the centered rolling sequences, same
	// length as the input, NaN at edge positions.
	RollingMin []float64 `json:"rollingMin"`
	RollingStd []float64 `json:"rollingStd"`
}

// CalculateBasePressure estimates the base pressure of a pumped vacuum
// system: the rolling minimum taken at the most stable region of the
// signal, where stability is the smallest centered rolling standard
// deviation over a window of windowMinutes at sampleRateHz.
//
// Non-positive windowMinutes or sampleRateHz fall back to the defaults of
// 10 minutes at 1 Hz. When the rolling standard deviation is undefined at
// every position (signal shorter than the window, or a one-sample window),
// the estimate degrades to the global minimum of the raw series and
// MostStableIndex is -1. For window >= len(data) the estimate therefore
// equals the exact global minimum.
func CalculateBasePressure(data []float64, windowMinutes, sampleRateHz float64) BasePressureResult {
	if windowMinutes <= 0 {
		windowMinutes = 10
	}
	if sampleRateHz <= 0 {
		sampleRateHz = 1
	}

	window := int(windowMinutes * 60 * sampleRateHz)
	rollingMin, rollingStd := RollingMinStd(data, window)

	best := -1
	for i, s := range rollingStd {
		if math.IsNaN(s) {
			continue
		}
		if best == -1 || s < rollingStd[best] {
			best = i
		}
	}

	result := BasePressureResult{
		MostStableIndex: best,
		RollingMin:      rollingMin,
		RollingStd:      rollingStd,
	}

	if best >= 0 && !math.IsNaN(rollingMin[best]) {
		result.BasePressure = rollingMin[best]
	} else {
		result.MostStableIndex = -1
		result.BasePressure = nanMin(data)
	}

	return result
}
