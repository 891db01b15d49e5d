package storage

import (
	"math"
	"time"

	"github.com/hipstereclipse/vacmon/pkg/vacuum"
)

// AnalysisParams bundles the tunables of the full analysis pass behind a
// report. Zero values are replaced by the engine's conventional defaults.
type AnalysisParams struct {
	BaseWindowMinutes float64
	SampleRateHz      float64

	SpikeThresholdFactor float64
	SpikeMinDuration     int
	SpikeWindow          int

	CycleMinDrop     float64
	CycleMinDuration int

	LeakSegmentMinDuration int
	LeakNoiseThreshold     float64
	LeakSlopeThreshold     float64
}

// DefaultAnalysisParams returns the conventional defaults: a 10 minute base
// pressure window at 1 Hz, 3-sigma spikes over 100 samples, 2-decade cycles
// of at least 10 samples, and 60-sample leak segments.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		BaseWindowMinutes:      10,
		SampleRateHz:           1,
		SpikeThresholdFactor:   3,
		SpikeMinDuration:       1,
		SpikeWindow:            100,
		CycleMinDrop:           2,
		CycleMinDuration:       10,
		LeakSegmentMinDuration: 60,
		LeakNoiseThreshold:     1e-7,
		LeakSlopeThreshold:     0,
	}
}

func (p AnalysisParams) withDefaults() AnalysisParams {
	def := DefaultAnalysisParams()
	if p.BaseWindowMinutes <= 0 {
		p.BaseWindowMinutes = def.BaseWindowMinutes
	}
	if p.SampleRateHz <= 0 {
		p.SampleRateHz = def.SampleRateHz
	}
	if p.SpikeThresholdFactor <= 0 {
		p.SpikeThresholdFactor = def.SpikeThresholdFactor
	}
	if p.SpikeMinDuration <= 0 {
		p.SpikeMinDuration = def.SpikeMinDuration
	}
	if p.SpikeWindow <= 0 {
		p.SpikeWindow = def.SpikeWindow
	}
	if p.CycleMinDrop <= 0 {
		p.CycleMinDrop = def.CycleMinDrop
	}
	if p.CycleMinDuration <= 0 {
		p.CycleMinDuration = def.CycleMinDuration
	}
	if p.LeakSegmentMinDuration <= 0 {
		p.LeakSegmentMinDuration = def.LeakSegmentMinDuration
	}
	if p.LeakNoiseThreshold <= 0 {
		p.LeakNoiseThreshold = def.LeakNoiseThreshold
	}
	return p
}

// NewReport runs the full analysis suite over a pressure signal and packs
// the results into a JSON-safe Report. The time axis is optional; pass nil
// to treat the sample index as seconds.
func NewReport(chamber string, windowSeconds int, pressure, timeAxis []float64, params AnalysisParams) Report {
	params = params.withDefaults()

	perf := vacuum.AnalyzeSystemPerformance(pressure, timeAxis)
	base := vacuum.CalculateBasePressure(pressure, params.BaseWindowMinutes, params.SampleRateHz)
	noise := vacuum.CalculateNoiseMetrics(pressure, params.SampleRateHz)
	leak := vacuum.CalculateLeakRate(pressure, timeAxis)
	pump := vacuum.AnalyzePumpDownCurve(pressure, timeAxis)

	return Report{
		Chamber:       chamber,
		GeneratedAt:   time.Now().UTC(),
		WindowSeconds: windowSeconds,
		Samples:       perf.Samples,

		MinPressure:  finite(perf.MinPressure),
		MaxPressure:  finite(perf.MaxPressure),
		MeanPressure: finite(perf.MeanPressure),
		Stability:    finite(perf.Stability),
		BasePressure: finite(base.BasePressure),

		NoiseRMS:          finite(noise.RMS),
		PeakToPeak:        finite(noise.PeakToPeak),
		SNRdB:             finite(noise.SNRdB),
		DominantFrequency: finite(noise.DominantFrequency),

		LeakRate:     finite(leak.LeakRate),
		LeakSlope:    finite(leak.Slope),
		LeakRSquared: finite(leak.RSquared),
		TimeConstant: finite(leak.TimeConstant),

		Spikes: vacuum.DetectPressureSpikes(pressure,
			params.SpikeThresholdFactor, params.SpikeMinDuration, params.SpikeWindow),
		LeakSegments: vacuum.DetectLeakSegments(pressure, timeAxis,
			params.LeakSegmentMinDuration, params.LeakNoiseThreshold, params.LeakSlopeThreshold),
		Cycles:     vacuum.DetectPumpdownCycles(pressure, timeAxis, params.CycleMinDrop, params.CycleMinDuration),
		Milestones: pump.Milestones,
	}
}

// finite maps NaN and infinities to 0 so the report survives JSON encoding.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
