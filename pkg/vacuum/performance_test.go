package vacuum

import (
	"math"
	"testing"
)

func TestAnalyzeSystemPerformance_SteadyOperation(t *testing.T) {
	pressure := flatSignal(1200, 5e-6)

	perf := AnalyzeSystemPerformance(pressure, nil)

	if perf.Samples != 1200 {
		t.Errorf("Samples = %d, want 1200", perf.Samples)
	}
	if perf.MinPressure != 5e-6 || perf.MaxPressure != 5e-6 {
		t.Errorf("min/max = %v, %v, want 5e-6 each", perf.MinPressure, perf.MaxPressure)
	}
	// The mean accumulates rounding over 1200 summands, so compare with a
	// tolerance rather than exactly.
	if !almostEqual(perf.MeanPressure, 5e-6, 1e-12) {
		t.Errorf("MeanPressure = %v, want ~5e-6", perf.MeanPressure)
	}
	if perf.Stability > 1e-12 {
		t.Errorf("Stability = %v, want ~0 for a constant signal", perf.Stability)
	}
	if perf.BasePressure != 5e-6 {
		t.Errorf("BasePressure = %v, want 5e-6", perf.BasePressure)
	}
	if len(perf.Spikes) != 0 {
		t.Errorf("got %d spikes, want 0", len(perf.Spikes))
	}
	if len(perf.Cycles) != 0 {
		t.Errorf("got %d cycles, want 0", len(perf.Cycles))
	}
}

func TestAnalyzeSystemPerformance_PumpdownWithSpike(t *testing.T) {
	// A 4-decade pump-down, a long steady floor, and one pressure burst on
	// the floor.
	pressure := make([]float64, 1500)
	copy(pressure, logRamp(100, -2, -6))
	for i := 100; i < 1500; i++ {
		pressure[i] = 1e-6
	}
	pressure[800] = 5e-4

	perf := AnalyzeSystemPerformance(pressure, nil)

	if len(perf.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %+v", len(perf.Cycles), perf.Cycles)
	}
	if len(perf.Spikes) == 0 {
		t.Fatal("no spikes detected")
	}
	found := false
	for _, s := range perf.Spikes {
		if s.Start <= 800 && 800 < s.End {
			found = true
		}
	}
	if !found {
		t.Errorf("no spike covering index 800: %+v", perf.Spikes)
	}
	if perf.BasePressure != 1e-6 {
		t.Errorf("BasePressure = %v, want 1e-6", perf.BasePressure)
	}
	if perf.MaxPressure != 1e-2 {
		t.Errorf("MaxPressure = %v, want 1e-2", perf.MaxPressure)
	}
}

func TestAnalyzeSystemPerformance_Empty(t *testing.T) {
	perf := AnalyzeSystemPerformance(nil, nil)

	if perf.Samples != 0 {
		t.Errorf("Samples = %d, want 0", perf.Samples)
	}
	for name, v := range map[string]float64{
		"MinPressure":  perf.MinPressure,
		"MaxPressure":  perf.MaxPressure,
		"MeanPressure": perf.MeanPressure,
		"Stability":    perf.Stability,
		"BasePressure": perf.BasePressure,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
	if len(perf.Spikes) != 0 || len(perf.Cycles) != 0 {
		t.Errorf("spikes/cycles not empty: %+v", perf)
	}
}
