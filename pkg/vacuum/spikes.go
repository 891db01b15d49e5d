package vacuum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SpikeSeverity is an ordinal classification of a pressure spike relative
// to the local baseline pressure at its onset.
type SpikeSeverity string

const (
	SeverityLow      SpikeSeverity = "low"      // peak <= 2x local baseline
	SeverityMedium   SpikeSeverity = "medium"   // peak > 2x local baseline
	SeverityHigh     SpikeSeverity = "high"     // peak > 5x local baseline
	SeverityCritical SpikeSeverity = "critical" // peak > 10x local baseline
)

// Spike describes one transient pressure excursion above the local noise
// envelope.
type Spike struct {
	// Start and End delimit the half-open sample interval [Start, End).
	Start int `json:"start"`
	End   int `json:"end"`

	// Duration is End - Start, in samples.
	Duration int `json:"duration"`

	// MaxPressure and MeanPressure are taken over the spike interval.
	MaxPressure  float64 `json:"maxPressure"`
	MeanPressure float64 `json:"meanPressure"`

	// Severity compares MaxPressure against the local rolling mean at the
	// interval start.
	Severity SpikeSeverity `json:"severity"`
}

// DetectPressureSpikes locates transient excursions above a dynamic
// per-sample threshold of rollingMean + thresholdFactor*rollingStd, merges
// consecutive flagged samples into intervals, and discards intervals
// shorter than minDuration samples.
//
// Parameter handling: thresholdFactor < 0 is clamped to 0 (defaults belong
// to the caller; 3 is conventional), minDuration < 1 becomes 1, and
// window < 1 becomes the conventional 100 samples before being clamped to
// the signal length. Edge positions of the rolling statistics are filled
// from the nearest defined value so spikes near the signal boundaries are
// still assessed. A spike still open at the end of the signal is closed at
// the final sample and kept if it meets minDuration.
//
// Detectability note: a spike occupying fraction f of its window inflates
// the rolling standard deviation by roughly sqrt(f/(1-f)) of its own
// amplitude, so a spike is only separable when f < 1/(1+thresholdFactor^2).
// Pick the window accordingly for long excursions.
func DetectPressureSpikes(data []float64, thresholdFactor float64, minDuration, window int) []Spike {
	n := len(data)
	if n == 0 {
		return nil
	}
	if thresholdFactor < 0 {
		thresholdFactor = 0
	}
	if window < 1 {
		window = 100
	}

	mu := fillEdges(rollingMean(data, window))
	_, sigma := RollingMinStd(data, window)
	sigma = fillEdges(sigma)

	exceeds := func(i int) bool {
		threshold := mu[i] + thresholdFactor*sigma[i]
		return !math.IsNaN(threshold) && data[i] > threshold
	}

	runs := findRuns(n, minDuration, exceeds)
	if len(runs) == 0 {
		return nil
	}

	spikes := make([]Spike, 0, len(runs))
	for _, r := range runs {
		region := data[r.Start:r.End]
		peak := floats.Max(region)

		spikes = append(spikes, Spike{
			Start:        r.Start,
			End:          r.End,
			Duration:     r.Len(),
			MaxPressure:  peak,
			MeanPressure: floats.Sum(region) / float64(len(region)),
			Severity:     classifySpike(peak, mu[r.Start]),
		})
	}

	return spikes
}

// classifySpike grades a spike peak against the local baseline pressure.
// A non-positive or undefined baseline is floored, which grades any real
// excursion over a dead gauge as critical.
func classifySpike(peak, baseline float64) SpikeSeverity {
	if math.IsNaN(baseline) {
		baseline = pressureFloor
	}
	ratio := peak / flooredPressure(baseline)

	switch {
	case ratio > 10:
		return SeverityCritical
	case ratio > 5:
		return SeverityHigh
	case ratio > 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
