package vacuum

import (
	"math"

	"github.com/montanaflynn/stats"
)

// SystemPerformance is a one-call summary of a vacuum system's behavior
// over a logged period, combining descriptive pressure statistics with the
// individual analyses under their conventional defaults.
type SystemPerformance struct {
	Samples      int     `json:"samples"`
	MinPressure  float64 `json:"minPressure"`
	MaxPressure  float64 `json:"maxPressure"`
	MeanPressure float64 `json:"meanPressure"`

	// Stability is the coefficient of variation (std/mean) of the raw
	// signal; lower is steadier.
	Stability float64 `json:"stability"`

	BasePressure float64         `json:"basePressure"`
	Spikes       []Spike         `json:"spikes"`
	Cycles       []PumpdownCycle `json:"cycles"`
}

// AnalyzeSystemPerformance runs the standard analysis suite over a signal
// with conventional parameters: a 10 minute base-pressure window at 1 Hz,
// 3-sigma spike detection over a 100 sample window, and pump-down cycles
// of at least 2 decades over at least 10 samples.
func AnalyzeSystemPerformance(pressure, timeAxis []float64) SystemPerformance {
	perf := SystemPerformance{
		Samples:      len(pressure),
		MinPressure:  math.NaN(),
		MaxPressure:  math.NaN(),
		MeanPressure: math.NaN(),
		Stability:    math.NaN(),
	}
	if len(pressure) == 0 {
		perf.BasePressure = math.NaN()
		return perf
	}

	data := stats.Float64Data(pressure)
	if v, err := data.Min(); err == nil {
		perf.MinPressure = v
	}
	if v, err := data.Max(); err == nil {
		perf.MaxPressure = v
	}
	if m, err := data.Mean(); err == nil {
		perf.MeanPressure = m
		if sd, err := data.StandardDeviationSample(); err == nil && m != 0 {
			perf.Stability = sd / m
		}
	}

	perf.BasePressure = CalculateBasePressure(pressure, 10, 1).BasePressure
	perf.Spikes = DetectPressureSpikes(pressure, 3, 1, 100)
	perf.Cycles = DetectPumpdownCycles(pressure, timeAxis, 2, 10)

	return perf
}
