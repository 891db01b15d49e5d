package vacuum

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LeakRateResult holds the whole-series exponential leak fit.
type LeakRateResult struct {
	// LeakRate approximates the leak in pressure*volume/time units for a
	// unit volume: the fitted log-pressure slope times the mean pressure.
	LeakRate float64 `json:"leakRate"`

	// Slope is the fitted slope of log(pressure) against elapsed seconds.
	Slope float64 `json:"slope"`

	// RSquared is the goodness of fit of the exponential curve in pressure
	// space (1 - SSres/SStot), 0 for a constant signal.
	RSquared float64 `json:"rSquared"`

	// TimeConstant is -1/Slope, +Inf when the slope is zero.
	TimeConstant float64 `json:"timeConstant"`

	// StartPressure and EndPressure are the first and last valid samples.
	StartPressure float64 `json:"startPressure"`
	EndPressure   float64 `json:"endPressure"`

	// FittedCurve is exp of the linear fit evaluated at each time point,
	// same length as the input, NaN where the input pair was invalid.
	FittedCurve []float64 `json:"fittedCurve"`
}

// CalculateLeakRate fits an exponential pressure model over the whole
// series: log(pressure) regressed linearly against elapsed seconds. The
// time axis is optional; see the package documentation. Pressures are
// floored above zero before the logarithm.
//
// Fewer than 2 valid (pressure, time) pairs degrade to a zeroed result
// with TimeConstant +Inf and an all-NaN fitted curve.
func CalculateLeakRate(pressure, timeAxis []float64) LeakRateResult {
	n := len(pressure)
	seconds := elapsedSeconds(timeAxis, n)
	idx := validPairs(pressure, seconds)

	result := LeakRateResult{
		TimeConstant:  math.Inf(1),
		StartPressure: math.NaN(),
		EndPressure:   math.NaN(),
		FittedCurve:   nanSlice(n),
	}

	if len(idx) < 2 {
		return result
	}

	xs := make([]float64, len(idx))
	logs := make([]float64, len(idx))
	var meanP float64
	for k, i := range idx {
		xs[k] = seconds[i]
		logs[k] = math.Log(flooredPressure(pressure[i]))
		meanP += pressure[i]
	}
	meanP /= float64(len(idx))

	alpha, beta := stat.LinearRegression(xs, logs, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return result
	}

	result.Slope = beta
	result.LeakRate = beta * meanP
	result.StartPressure = pressure[idx[0]]
	result.EndPressure = pressure[idx[len(idx)-1]]
	if beta != 0 {
		result.TimeConstant = -1 / beta
	}

	fittedValid := make([]float64, len(idx))
	observed := make([]float64, len(idx))
	for k, i := range idx {
		fitted := math.Exp(alpha + beta*seconds[i])
		result.FittedCurve[i] = fitted
		fittedValid[k] = fitted
		observed[k] = pressure[i]
	}

	// R-squared in pressure space; a constant signal has no variance to
	// explain and reports 0 rather than dividing by zero.
	if stat.Variance(observed, nil) > 0 {
		result.RSquared = stat.RSquaredFrom(fittedValid, observed, nil)
	}

	return result
}

// LeakSegment describes one sliding-window region flagged as leak-like:
// rising pressure with residual noise below threshold.
type LeakSegment struct {
	// Start and End delimit the half-open sample interval [Start, End).
	Start int `json:"start"`
	End   int `json:"end"`

	// StartTime and EndTime are elapsed seconds at the window bounds.
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`

	// Slope is the fitted linear slope of pressure per sample within the
	// window.
	Slope float64 `json:"slope"`

	// LeakRate approximates Slope times the window's mean pressure.
	LeakRate float64 `json:"leakRate"`

	// Noise is the sample standard deviation of the fit residuals.
	Noise float64 `json:"noise"`
}

// DetectLeakSegments slides a window of minDuration samples (step = half
// the window) across the signal and flags windows whose linear pressure
// trend exceeds slopeThreshold with residual noise below noiseThreshold.
// Flagged windows are reported individually, in order of occurrence.
//
// minDuration is clamped to [2, len(pressure)]; negative thresholds are
// clamped to 0. Windows with fewer than 2 valid samples are skipped.
func DetectLeakSegments(pressure, timeAxis []float64, minDuration int, noiseThreshold, slopeThreshold float64) []LeakSegment {
	n := len(pressure)
	if n < 2 {
		return nil
	}
	if minDuration < 2 {
		minDuration = 2
	}
	if minDuration > n {
		minDuration = n
	}
	if noiseThreshold < 0 {
		noiseThreshold = 0
	}
	if slopeThreshold < 0 {
		slopeThreshold = 0
	}

	seconds := elapsedSeconds(timeAxis, n)

	window := minDuration
	step := window / 2
	if step < 1 {
		step = 1
	}

	var segments []LeakSegment
	for start := 0; start+window <= n; start += step {
		end := start + window

		var xs, ys []float64
		var sum float64
		for i := start; i < end; i++ {
			if math.IsNaN(pressure[i]) || math.IsInf(pressure[i], 0) {
				continue
			}
			xs = append(xs, float64(i-start))
			ys = append(ys, pressure[i])
			sum += pressure[i]
		}
		if len(ys) < 2 {
			continue
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)

		residuals := make([]float64, len(ys))
		for k := range ys {
			residuals[k] = ys[k] - (alpha + beta*xs[k])
		}
		noise := sampleStd(residuals)

		if beta > slopeThreshold && noise < noiseThreshold {
			segments = append(segments, LeakSegment{
				Start:     start,
				End:       end,
				StartTime: seconds[start],
				EndTime:   seconds[end-1],
				Slope:     beta,
				LeakRate:  beta * sum / float64(len(ys)),
				Noise:     noise,
			})
		}
	}

	return segments
}
