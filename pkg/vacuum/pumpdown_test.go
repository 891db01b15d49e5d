package vacuum

import (
	"math"
	"testing"
)

// logRamp returns n samples descending from 10^from to 10^to with a linear
// log10 profile.
func logRamp(n int, from, to float64) []float64 {
	data := make([]float64, n)
	for i := range data {
		frac := float64(i) / float64(n-1)
		data[i] = math.Pow(10, from+(to-from)*frac)
	}
	return data
}

func TestAnalyzePumpDownCurve_CleanDecay(t *testing.T) {
	// 601 samples from 1e-2 down to 1e-8, one centidecade per sample: every
	// standard milestone crossed exactly on a sample boundary.
	pressure := logRamp(601, -2, -8)

	result := AnalyzePumpDownCurve(pressure, nil)

	if !almostEqual(result.InitialPressure, 1e-2, 1e-12) {
		t.Errorf("InitialPressure = %v, want 1e-2", result.InitialPressure)
	}
	if !almostEqual(result.FinalPressure, 1e-8, 1e-18) {
		t.Errorf("FinalPressure = %v, want 1e-8", result.FinalPressure)
	}
	if !almostEqual(result.MinPressure, 1e-8, 1e-18) {
		t.Errorf("MinPressure = %v, want 1e-8", result.MinPressure)
	}

	wantMilestones := []struct {
		target float64
		index  int
	}{
		{1e-3, 100},
		{1e-4, 200},
		{1e-5, 300},
		{1e-6, 400},
		{1e-7, 500},
	}
	if len(result.Milestones) != len(wantMilestones) {
		t.Fatalf("got %d milestones, want %d: %+v", len(result.Milestones), len(wantMilestones), result.Milestones)
	}
	for i, want := range wantMilestones {
		m := result.Milestones[i]
		if m.Target != want.target {
			t.Errorf("milestone %d Target = %v, want %v", i, m.Target, want.target)
		}
		if m.Index != want.index {
			t.Errorf("milestone %d Index = %d, want %d", i, m.Index, want.index)
		}
		if !almostEqual(m.Time, float64(want.index), 1e-9) {
			t.Errorf("milestone %d Time = %v, want %v", i, m.Time, float64(want.index))
		}
	}

	// A constant log10 slope of -0.01 per sample gives a constant pumping
	// speed of 0.01 decades per second.
	if len(result.PumpingSpeed) != len(pressure) {
		t.Fatalf("PumpingSpeed length = %d, want %d", len(result.PumpingSpeed), len(pressure))
	}
	for i, v := range result.PumpingSpeed {
		if !almostEqual(v, 0.01, 1e-9) {
			t.Fatalf("PumpingSpeed[%d] = %v, want 0.01", i, v)
		}
	}
}

func TestAnalyzePumpDownCurve_TimeAxisScalesSpeed(t *testing.T) {
	// Same decay sampled every 2 seconds: milestone times and pumping speed
	// must follow the time axis, not the sample index.
	pressure := logRamp(601, -2, -8)
	timeAxis := make([]float64, len(pressure))
	for i := range timeAxis {
		timeAxis[i] = 500 + 2*float64(i)
	}

	result := AnalyzePumpDownCurve(pressure, timeAxis)

	if len(result.Milestones) == 0 {
		t.Fatal("no milestones detected")
	}
	if first := result.Milestones[0]; !almostEqual(first.Time, 200, 1e-9) {
		t.Errorf("first milestone Time = %v, want 200 (rebased seconds)", first.Time)
	}
	if !almostEqual(result.PumpingSpeed[300], 0.005, 1e-9) {
		t.Errorf("PumpingSpeed[300] = %v, want 0.005", result.PumpingSpeed[300])
	}
}

func TestAnalyzePumpDownCurve_NoMilestonesInRange(t *testing.T) {
	// A shallow decay from 5e-2 to 2e-2 never reaches any standard level.
	pressure := logRamp(100, math.Log10(5e-2), math.Log10(2e-2))

	result := AnalyzePumpDownCurve(pressure, nil)
	if len(result.Milestones) != 0 {
		t.Errorf("got %d milestones, want 0: %+v", len(result.Milestones), result.Milestones)
	}
}

func TestAnalyzePumpDownCurve_Degraded(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		result := AnalyzePumpDownCurve(nil, nil)
		if !math.IsNaN(result.InitialPressure) || !math.IsNaN(result.FinalPressure) || !math.IsNaN(result.MinPressure) {
			t.Errorf("pressures = %v, %v, %v, want NaN",
				result.InitialPressure, result.FinalPressure, result.MinPressure)
		}
		if len(result.Milestones) != 0 || len(result.PumpingSpeed) != 0 {
			t.Errorf("sequences not empty: %+v", result)
		}
	})

	t.Run("single sample", func(t *testing.T) {
		result := AnalyzePumpDownCurve([]float64{4e-5}, nil)
		if result.InitialPressure != 4e-5 || result.FinalPressure != 4e-5 {
			t.Errorf("pressures = %v, %v, want 4e-5", result.InitialPressure, result.FinalPressure)
		}
		if len(result.PumpingSpeed) != 1 {
			t.Fatalf("PumpingSpeed length = %d, want 1", len(result.PumpingSpeed))
		}
	})
}

func TestDetectPumpdownCycles_SingleCycle(t *testing.T) {
	// A 4-decade descent over 100 samples followed by a flat floor.
	pressure := make([]float64, 200)
	copy(pressure, logRamp(100, -2, -6))
	for i := 100; i < 200; i++ {
		pressure[i] = 1e-6
	}

	cycles := DetectPumpdownCycles(pressure, nil, 2, 10)

	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %+v", len(cycles), cycles)
	}
	c := cycles[0]
	if c.Start != 0 || c.End != 100 {
		t.Errorf("cycle interval = [%d, %d), want [0, 100)", c.Start, c.End)
	}
	if !almostEqual(c.PressureDrop, 4, 1e-9) {
		t.Errorf("PressureDrop = %v, want 4 decades", c.PressureDrop)
	}
	if !almostEqual(c.Duration, 99, 1e-9) {
		t.Errorf("Duration = %v, want 99", c.Duration)
	}
	if !almostEqual(c.PumpingRate, 4.0/99, 1e-9) {
		t.Errorf("PumpingRate = %v, want %v", c.PumpingRate, 4.0/99)
	}
	if !almostEqual(c.TimeToBase, 99, 1e-9) {
		t.Errorf("TimeToBase = %v, want 99 (minimum at the last cycle sample)", c.TimeToBase)
	}
	if c.Efficiency != EfficiencyModerate {
		t.Errorf("Efficiency = %q, want %q for a 4-decade drop", c.Efficiency, EfficiencyModerate)
	}
}

func TestDetectPumpdownCycles_TwoCycles(t *testing.T) {
	// Two descents separated by a vent back to atmosphere-ish pressure.
	pressure := make([]float64, 400)
	copy(pressure[0:100], logRamp(100, -2, -6))
	for i := 100; i < 201; i++ {
		pressure[i] = 1e-6
	}
	copy(pressure[201:301], logRamp(100, -2, -6))
	for i := 301; i < 400; i++ {
		pressure[i] = 1e-6
	}

	cycles := DetectPumpdownCycles(pressure, nil, 2, 10)

	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2: %+v", len(cycles), cycles)
	}
	if cycles[0].Start != 0 || cycles[0].End != 100 {
		t.Errorf("first cycle = [%d, %d), want [0, 100)", cycles[0].Start, cycles[0].End)
	}
	// The central-difference gradient straddles the vent step, so the second
	// cycle starts a sample or two into the descent.
	if cycles[1].Start < 201 || cycles[1].Start > 203 {
		t.Errorf("second cycle Start = %d, want within [201, 203]", cycles[1].Start)
	}
	if cycles[1].PressureDrop < 3.8 || cycles[1].PressureDrop > 4.0 {
		t.Errorf("second cycle PressureDrop = %v, want close to 4 decades", cycles[1].PressureDrop)
	}
}

func TestDetectPumpdownCycles_Filters(t *testing.T) {
	pressure := make([]float64, 200)
	copy(pressure, logRamp(100, -2, -6))
	for i := 100; i < 200; i++ {
		pressure[i] = 1e-6
	}

	t.Run("minimum drop", func(t *testing.T) {
		if cycles := DetectPumpdownCycles(pressure, nil, 5, 10); len(cycles) != 0 {
			t.Errorf("got %d cycles, want 0 with a 5-decade floor", len(cycles))
		}
	})

	t.Run("minimum duration", func(t *testing.T) {
		if cycles := DetectPumpdownCycles(pressure, nil, 2, 150); len(cycles) != 0 {
			t.Errorf("got %d cycles, want 0 with a 150-sample floor", len(cycles))
		}
	})
}

func TestDetectPumpdownCycles_HighEfficiency(t *testing.T) {
	pressure := make([]float64, 200)
	copy(pressure, logRamp(100, -2, -7))
	for i := 100; i < 200; i++ {
		pressure[i] = 1e-7
	}

	cycles := DetectPumpdownCycles(pressure, nil, 2, 10)
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	if cycles[0].Efficiency != EfficiencyHigh {
		t.Errorf("Efficiency = %q, want %q for a 5-decade drop", cycles[0].Efficiency, EfficiencyHigh)
	}
}

func TestDetectPumpdownCycles_Degraded(t *testing.T) {
	if cycles := DetectPumpdownCycles(nil, nil, 2, 10); cycles != nil {
		t.Errorf("got %v on empty input, want nil", cycles)
	}
	if cycles := DetectPumpdownCycles([]float64{1e-5}, nil, 2, 10); cycles != nil {
		t.Errorf("got %v on a single sample, want nil", cycles)
	}
	if cycles := DetectPumpdownCycles(flatSignal(100, 1e-6), nil, 2, 10); len(cycles) != 0 {
		t.Errorf("got %d cycles on a flat signal, want 0", len(cycles))
	}
}
