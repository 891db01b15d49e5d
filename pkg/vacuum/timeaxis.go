package vacuum

import "math"

// elapsedSeconds normalizes an optional time axis for n pressure samples.
//
// A non-empty axis is rebased to elapsed seconds from its first element.
// A nil axis, or one shorter than n, degrades to the sample index, which
// corresponds to a 1 Hz acquisition.
func elapsedSeconds(timeAxis []float64, n int) []float64 {
	out := make([]float64, n)
	if len(timeAxis) < n || n == 0 {
		for i := range out {
			out[i] = float64(i)
		}
		return out
	}
	t0 := timeAxis[0]
	for i := 0; i < n; i++ {
		out[i] = timeAxis[i] - t0
	}
	return out
}

// validPairs reports the indices at which both pressure and seconds are
// finite. Gauge logs routinely contain gaps (communication dropouts,
// over-range readings) that must not feed a regression.
func validPairs(pressure, seconds []float64) []int {
	idx := make([]int, 0, len(pressure))
	for i := range pressure {
		if math.IsNaN(pressure[i]) || math.IsInf(pressure[i], 0) {
			continue
		}
		if math.IsNaN(seconds[i]) || math.IsInf(seconds[i], 0) {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// logGradient computes the per-sample gradient of log10(pressure + floor)
// using central differences, with one-sided differences at the edges. The
// result has the same length as pressure; signals shorter than 2 samples
// yield zeros.
func logGradient(pressure []float64) []float64 {
	n := len(pressure)
	grad := make([]float64, n)
	if n < 2 {
		return grad
	}

	logs := make([]float64, n)
	for i, p := range pressure {
		logs[i] = math.Log10(flooredPressure(p))
	}

	grad[0] = logs[1] - logs[0]
	grad[n-1] = logs[n-1] - logs[n-2]
	for i := 1; i < n-1; i++ {
		grad[i] = (logs[i+1] - logs[i-1]) / 2
	}
	return grad
}
