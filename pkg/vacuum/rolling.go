package vacuum

import "math"

// RollingMinStd computes the centered rolling minimum and rolling sample
// standard deviation of data over the given window length (in samples).
//
// Both output slices have the same length as data. Positions whose centered
// window does not fit entirely inside the signal are NaN; for window > 1 the
// rolling standard deviation uses the n-1 denominator, and for window == 1
// it is NaN everywhere (a single sample has no spread).
//
// window is coerced to at least 1 and clamped to len(data), so a window
// longer than the signal degrades to a single whole-signal statistic at the
// center position.
func RollingMinStd(data []float64, window int) (rollingMin, rollingStd []float64) {
	n := len(data)
	rollingMin = nanSlice(n)
	rollingStd = nanSlice(n)
	if n == 0 {
		return rollingMin, rollingStd
	}

	w := clampWindow(window, n)

	// Prefix sums give O(1) mean/variance per window.
	sum := make([]float64, n+1)
	sumSq := make([]float64, n+1)
	for i, v := range data {
		sum[i+1] = sum[i] + v
		sumSq[i+1] = sumSq[i] + v*v
	}

	// Monotonic index deque for the sliding minimum.
	deque := make([]int, 0, w)

	for i := 0; i < n; i++ {
		// Drop candidates that can no longer appear in any window ending here.
		for len(deque) > 0 && deque[0] <= i-w {
			deque = deque[1:]
		}
		for len(deque) > 0 && data[deque[len(deque)-1]] >= data[i] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)

		// The window ending at i is [i-w+1, i]; its centered label sits at
		// start + (w-1)/2, matching a centered rolling statistic that only
		// reports positions with a full window.
		start := i - w + 1
		if start < 0 {
			continue
		}
		center := start + (w-1)/2

		rollingMin[center] = data[deque[0]]

		if w > 1 {
			s := sum[i+1] - sum[start]
			sq := sumSq[i+1] - sumSq[start]
			variance := (sq - s*s/float64(w)) / float64(w-1)
			if variance < 0 {
				variance = 0 // floating point cancellation on near-constant windows
			}
			rollingStd[center] = math.Sqrt(variance)
		}
	}

	return rollingMin, rollingStd
}

// rollingMean computes the centered rolling mean with the same window and
// edge conventions as RollingMinStd.
func rollingMean(data []float64, window int) []float64 {
	n := len(data)
	out := nanSlice(n)
	if n == 0 {
		return out
	}

	w := clampWindow(window, n)

	sum := make([]float64, n+1)
	for i, v := range data {
		sum[i+1] = sum[i] + v
	}

	for start := 0; start+w <= n; start++ {
		center := start + (w-1)/2
		out[center] = (sum[start+w] - sum[start]) / float64(w)
	}

	return out
}

// fillEdges replaces leading NaNs with the first defined value and trailing
// NaNs with the last defined value, in place. A slice with no defined value
// is returned unchanged.
func fillEdges(xs []float64) []float64 {
	first, last := -1, -1
	for i, v := range xs {
		if !math.IsNaN(v) {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return xs
	}
	for i := 0; i < first; i++ {
		xs[i] = xs[first]
	}
	for i := last + 1; i < len(xs); i++ {
		xs[i] = xs[last]
	}
	return xs
}

func clampWindow(window, n int) int {
	if window < 1 {
		return 1
	}
	if window > n {
		return n
	}
	return window
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
