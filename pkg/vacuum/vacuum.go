// Package vacuum implements numeric analysis routines for vacuum pressure
// time series: base-pressure estimation, noise characterization, spike
// detection, leak-rate fitting, and pump-down curve analysis.
//
// All functions are pure and synchronous. Inputs are treated as read-only
// and outputs are newly allocated, so concurrent calls over the same data
// are safe. Functions never return errors: insufficient data, zero or
// negative pressures, and out-of-range parameters degrade to the documented
// fallback instead. Callers driving an interactive display always get a
// usable (possibly empty) result.
//
// Pressures are unit-agnostic; mbar is assumed in documentation and in the
// standard pump-down milestones. A time axis is always optional: when nil
// or shorter than the pressure series, the sample index (0, 1, 2, ...)
// serves as elapsed seconds.
package vacuum

import "math"

// pressureFloor is the epsilon applied before logarithms and ratios so
// zero or negative gauge readings never produce a domain error.
const pressureFloor = 1e-12

// flooredPressure clamps a pressure reading to the positive domain.
func flooredPressure(p float64) float64 {
	if !(p > pressureFloor) {
		return pressureFloor
	}
	return p
}

// mean returns the arithmetic mean, or NaN for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// sampleStd returns the sample standard deviation (n-1 denominator),
// or NaN when fewer than 2 values are given.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var sumSq float64
	for _, v := range xs {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// nanMin returns the minimum over the finite values of xs, ignoring NaN.
// Returns NaN when no finite value exists.
func nanMin(xs []float64) float64 {
	min := math.NaN()
	for _, v := range xs {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}
