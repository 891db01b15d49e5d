package vacuum

import "math"

// milestoneTargets are the standard decade pressure levels (mbar) tracked
// during a pump-down.
var milestoneTargets = []float64{1e-3, 1e-4, 1e-5, 1e-6, 1e-7}

// pumpGradientThreshold marks a sample as actively pumping down when the
// per-sample gradient of log10(pressure) is more negative than this.
const pumpGradientThreshold = -0.01

// Milestone records the first crossing of a decade pressure level.
type Milestone struct {
	// Target is the milestone pressure level.
	Target float64 `json:"target"`

	// Index is the first sample at or below Target.
	Index int `json:"index"`

	// Time is the elapsed seconds at Index.
	Time float64 `json:"time"`
}

// PumpDownResult characterizes a single pressure decay transient.
type PumpDownResult struct {
	// InitialPressure is the first sample, FinalPressure the last sample.
	// MinPressure is the signal minimum, reported separately since a curve
	// can overshoot its settling value.
	InitialPressure float64 `json:"initialPressure"`
	FinalPressure   float64 `json:"finalPressure"`
	MinPressure     float64 `json:"minPressure"`

	// Milestones lists the standard decade levels strictly between final
	// and initial pressure, each with its first crossing, in order of
	// decreasing target (order of crossing).
	Milestones []Milestone `json:"milestones"`

	// PumpingSpeed is -d(log10 pressure)/dt per sample: the instantaneous
	// pumping rate in decades per second, same length as the input.
	PumpingSpeed []float64 `json:"pumpingSpeed"`
}

// AnalyzePumpDownCurve characterizes one pump-down transient: initial and
// final pressures, the first crossing time of each standard decade
// milestone, and an instantaneous pumping-speed indicator.
//
// Empty input yields NaN pressures and empty sequences. The time axis is
// optional; see the package documentation.
func AnalyzePumpDownCurve(pressure, timeAxis []float64) PumpDownResult {
	n := len(pressure)
	if n == 0 {
		return PumpDownResult{
			InitialPressure: math.NaN(),
			FinalPressure:   math.NaN(),
			MinPressure:     math.NaN(),
		}
	}

	seconds := elapsedSeconds(timeAxis, n)

	result := PumpDownResult{
		InitialPressure: pressure[0],
		FinalPressure:   pressure[n-1],
		MinPressure:     nanMin(pressure),
		PumpingSpeed:    make([]float64, n),
	}

	for _, target := range milestoneTargets {
		if !(result.FinalPressure <= target && target < result.InitialPressure) {
			continue
		}
		for i, p := range pressure {
			if p <= target {
				result.Milestones = append(result.Milestones, Milestone{
					Target: target,
					Index:  i,
					Time:   seconds[i],
				})
				break
			}
		}
	}

	grad := logGradient(pressure)
	for i := range grad {
		dt := 1.0
		switch {
		case n == 1:
		case i == 0:
			dt = seconds[1] - seconds[0]
		case i == n-1:
			dt = seconds[n-1] - seconds[n-2]
		default:
			dt = (seconds[i+1] - seconds[i-1]) / 2
		}
		if dt > 0 {
			result.PumpingSpeed[i] = -grad[i] / dt
		}
	}

	return result
}

// CycleEfficiency is an ordinal grade of a pump-down cycle by the pressure
// drop it achieved.
type CycleEfficiency string

const (
	EfficiencyLow      CycleEfficiency = "low"      // drop <= 2 decades
	EfficiencyModerate CycleEfficiency = "moderate" // drop > 2 decades
	EfficiencyHigh     CycleEfficiency = "high"     // drop > 4 decades
)

// PumpdownCycle describes one detected pump-down cycle within a longer
// signal.
type PumpdownCycle struct {
	// Start and End delimit the half-open sample interval [Start, End).
	Start int `json:"start"`
	End   int `json:"end"`

	// StartTime and EndTime are elapsed seconds at the cycle bounds;
	// Duration is their difference.
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Duration  float64 `json:"duration"`

	// InitialPressure and FinalPressure are the cycle's boundary samples.
	InitialPressure float64 `json:"initialPressure"`
	FinalPressure   float64 `json:"finalPressure"`

	// PressureDrop is log10(initial/final): the drop in orders of
	// magnitude.
	PressureDrop float64 `json:"pressureDrop"`

	// TimeToBase is the elapsed time from the cycle start to the cycle's
	// minimum pressure.
	TimeToBase float64 `json:"timeToBase"`

	// PumpingRate is PressureDrop / Duration in decades per second, 0 for
	// a zero-duration cycle.
	PumpingRate float64 `json:"pumpingRate"`

	// Efficiency grades the cycle by its pressure drop.
	Efficiency CycleEfficiency `json:"efficiency"`
}

// DetectPumpdownCycles locates pump-down cycles in a long signal: maximal
// runs of samples whose log10-pressure gradient is more negative than
// pumpGradientThreshold, at least minDuration samples long, achieving a
// pressure drop of at least minDrop orders of magnitude.
//
// minDuration < 1 becomes 1; minDrop < 0 becomes 0. Cycles are returned in
// order of occurrence; a cycle still open at the end of the signal is
// closed at the final sample.
func DetectPumpdownCycles(pressure, timeAxis []float64, minDrop float64, minDuration int) []PumpdownCycle {
	n := len(pressure)
	if n < 2 {
		return nil
	}
	if minDrop < 0 {
		minDrop = 0
	}

	seconds := elapsedSeconds(timeAxis, n)
	grad := logGradient(pressure)

	runs := findRuns(n, minDuration, func(i int) bool {
		return grad[i] < pumpGradientThreshold
	})

	var cycles []PumpdownCycle
	for _, r := range runs {
		pInitial := flooredPressure(pressure[r.Start])
		pFinal := flooredPressure(pressure[r.End-1])

		drop := math.Log10(pInitial / pFinal)
		if drop < minDrop {
			continue
		}

		minIdx := r.Start
		for i := r.Start; i < r.End; i++ {
			if pressure[i] < pressure[minIdx] {
				minIdx = i
			}
		}

		duration := seconds[r.End-1] - seconds[r.Start]
		rate := 0.0
		if duration > 0 {
			rate = drop / duration
		}

		cycles = append(cycles, PumpdownCycle{
			Start:           r.Start,
			End:             r.End,
			StartTime:       seconds[r.Start],
			EndTime:         seconds[r.End-1],
			Duration:        duration,
			InitialPressure: pressure[r.Start],
			FinalPressure:   pressure[r.End-1],
			PressureDrop:    drop,
			TimeToBase:      seconds[minIdx] - seconds[r.Start],
			PumpingRate:     rate,
			Efficiency:      classifyCycle(drop),
		})
	}

	return cycles
}

func classifyCycle(drop float64) CycleEfficiency {
	switch {
	case drop > 4:
		return EfficiencyHigh
	case drop > 2:
		return EfficiencyModerate
	default:
		return EfficiencyLow
	}
}
