package vacuum

import (
	"math"
	"testing"
)

func TestCalculateLeakRate_ExponentialDecay(t *testing.T) {
	// p(t) = 1e-3 * exp(-0.01 t): slope -0.01, time constant 100 s, perfect
	// fit in pressure space.
	n := 500
	pressure := make([]float64, n)
	for i := range pressure {
		pressure[i] = 1e-3 * math.Exp(-0.01*float64(i))
	}

	result := CalculateLeakRate(pressure, nil)

	if !almostEqual(result.Slope, -0.01, 1e-9) {
		t.Errorf("Slope = %v, want -0.01", result.Slope)
	}
	if !almostEqual(result.TimeConstant, 100, 1e-5) {
		t.Errorf("TimeConstant = %v, want 100", result.TimeConstant)
	}
	if result.RSquared < 0.999 {
		t.Errorf("RSquared = %v, want ~1 for a perfect exponential", result.RSquared)
	}
	if result.StartPressure != pressure[0] {
		t.Errorf("StartPressure = %v, want %v", result.StartPressure, pressure[0])
	}
	if result.EndPressure != pressure[n-1] {
		t.Errorf("EndPressure = %v, want %v", result.EndPressure, pressure[n-1])
	}
	if len(result.FittedCurve) != n {
		t.Fatalf("FittedCurve length = %d, want %d", len(result.FittedCurve), n)
	}
	for i := 0; i < n; i += 100 {
		if math.Abs(result.FittedCurve[i]-pressure[i]) > pressure[i]*1e-6 {
			t.Errorf("FittedCurve[%d] = %v, want %v", i, result.FittedCurve[i], pressure[i])
		}
	}
}

func TestCalculateLeakRate_RisingPressureWithTimeAxis(t *testing.T) {
	// Explicit 2 s sampling interval: the slope must come out per second,
	// half of the per-sample value.
	n := 200
	pressure := make([]float64, n)
	timeAxis := make([]float64, n)
	for i := range pressure {
		timeAxis[i] = 1000 + 2*float64(i)
		pressure[i] = 1e-6 * math.Exp(0.004*float64(i))
	}

	result := CalculateLeakRate(pressure, timeAxis)

	if !almostEqual(result.Slope, 0.002, 1e-9) {
		t.Errorf("Slope = %v, want 0.002 per second", result.Slope)
	}
	if result.LeakRate <= 0 {
		t.Errorf("LeakRate = %v, want positive for rising pressure", result.LeakRate)
	}
	if !almostEqual(result.TimeConstant, -500, 1e-4) {
		t.Errorf("TimeConstant = %v, want -500", result.TimeConstant)
	}
}

func TestCalculateLeakRate_ConstantSignal(t *testing.T) {
	pressure := flatSignal(100, 3e-6)

	result := CalculateLeakRate(pressure, nil)

	if !almostEqual(result.Slope, 0, 1e-12) {
		t.Errorf("Slope = %v, want 0", result.Slope)
	}
	if result.RSquared != 0 {
		t.Errorf("RSquared = %v, want 0 for a signal with no variance", result.RSquared)
	}
}

func TestCalculateLeakRate_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		pressure []float64
		timeAxis []float64
	}{
		{"empty", nil, nil},
		{"one sample", []float64{1e-5}, nil},
		{"all NaN", []float64{math.NaN(), math.NaN(), math.NaN()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateLeakRate(tt.pressure, tt.timeAxis)
			if result.LeakRate != 0 || result.Slope != 0 {
				t.Errorf("LeakRate = %v, Slope = %v, want zeroes", result.LeakRate, result.Slope)
			}
			if !math.IsInf(result.TimeConstant, 1) {
				t.Errorf("TimeConstant = %v, want +Inf", result.TimeConstant)
			}
			if len(result.FittedCurve) != len(tt.pressure) {
				t.Errorf("FittedCurve length = %d, want %d", len(result.FittedCurve), len(tt.pressure))
			}
			for i, v := range result.FittedCurve {
				if !math.IsNaN(v) {
					t.Errorf("FittedCurve[%d] = %v, want NaN", i, v)
				}
			}
		})
	}
}

func TestCalculateLeakRate_SkipsInvalidSamples(t *testing.T) {
	pressure := make([]float64, 100)
	for i := range pressure {
		pressure[i] = 1e-3 * math.Exp(-0.01*float64(i))
	}
	pressure[10] = math.NaN()
	pressure[50] = math.Inf(1)

	result := CalculateLeakRate(pressure, nil)

	if !almostEqual(result.Slope, -0.01, 1e-9) {
		t.Errorf("Slope = %v, want -0.01 with invalid samples skipped", result.Slope)
	}
	if !math.IsNaN(result.FittedCurve[10]) || !math.IsNaN(result.FittedCurve[50]) {
		t.Errorf("FittedCurve at invalid indices = %v, %v, want NaN",
			result.FittedCurve[10], result.FittedCurve[50])
	}
}

func TestDetectLeakSegments_CleanRamp(t *testing.T) {
	// A clean linear rise from 1e-6 to 1.1e-6 over 1000 samples: one window
	// covering the whole signal, flagged as a leak.
	n := 1000
	pressure := make([]float64, n)
	for i := range pressure {
		pressure[i] = 1e-6 + 1e-10*float64(i)
	}

	segments := DetectLeakSegments(pressure, nil, n, 1e-9, 0)

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(segments), segments)
	}
	seg := segments[0]
	if seg.Start != 0 || seg.End != n {
		t.Errorf("segment interval = [%d, %d), want [0, %d)", seg.Start, seg.End, n)
	}
	if !almostEqual(seg.Slope, 1e-10, 1e-15) {
		t.Errorf("Slope = %v, want 1e-10", seg.Slope)
	}
	if seg.Noise > 1e-12 {
		t.Errorf("Noise = %v, want ~0 for a clean ramp", seg.Noise)
	}
}

func TestDetectLeakSegments_NoisyRampRejected(t *testing.T) {
	// The same rise buried in noise well above the threshold must not be
	// flagged.
	n := 1000
	pressure := make([]float64, n)
	for i := range pressure {
		wobble := 5e-8
		if i%2 == 0 {
			wobble = -5e-8
		}
		pressure[i] = 1e-6 + 1e-10*float64(i) + wobble
	}

	segments := DetectLeakSegments(pressure, nil, n, 1e-9, 0)
	if len(segments) != 0 {
		t.Errorf("got %d segments, want 0 for a noisy ramp: %+v", len(segments), segments)
	}
}

func TestDetectLeakSegments_FlatSignal(t *testing.T) {
	segments := DetectLeakSegments(flatSignal(500, 1e-6), nil, 100, 1e-9, 0)
	if len(segments) != 0 {
		t.Errorf("got %d segments, want 0 for a flat signal", len(segments))
	}
}

func TestDetectLeakSegments_Degraded(t *testing.T) {
	if segments := DetectLeakSegments(nil, nil, 100, 1e-9, 0); segments != nil {
		t.Errorf("got %v on empty input, want nil", segments)
	}
	if segments := DetectLeakSegments([]float64{1e-6}, nil, 100, 1e-9, 0); segments != nil {
		t.Errorf("got %v on a single sample, want nil", segments)
	}

	// Clamped parameters must not panic or flag anything on a flat signal.
	if segments := DetectLeakSegments(flatSignal(10, 1e-6), nil, -5, -1, -1); len(segments) != 0 {
		t.Errorf("got %d segments with clamped parameters, want 0", len(segments))
	}
}
