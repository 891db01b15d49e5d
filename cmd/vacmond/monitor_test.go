package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/hipstereclipse/vacmon/pkg/source"
	"github.com/hipstereclipse/vacmon/pkg/storage"
)

// fakeSource returns a canned series or error.
type fakeSource struct {
	series *source.Series
	err    error
	calls  int
}

func (f *fakeSource) Collect(ctx context.Context, windowSeconds int) (*source.Series, error) {
	f.calls++
	if f.err != nil {
		return &source.Series{}, f.err
	}
	return f.series, nil
}

func (f *fakeSource) Name() string { return "fake" }

func testSeries(n int) *source.Series {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &source.Series{
		Times:    make([]time.Time, n),
		Pressure: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.Times[i] = base.Add(time.Duration(i) * time.Second)
		s.Pressure[i] = 1e-6
	}
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMonitor(t *testing.T) {
	src := &fakeSource{series: testSeries(10)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	if m == nil {
		t.Fatal("NewMonitor() returned nil")
	}
	if m.chamber != "main-chamber" {
		t.Errorf("chamber = %q, want %q", m.chamber, "main-chamber")
	}
}

func TestNewMonitor_NilLogger(t *testing.T) {
	src := &fakeSource{series: testSeries(10)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, nil, nil)

	if m.logger == nil {
		t.Error("logger should not be nil when nil is passed")
	}
}

func TestMonitor_Tick_StoresReport(t *testing.T) {
	src := &fakeSource{series: testSeries(600)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	if err := m.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	report, found, err := store.GetLatest(context.Background(), "main-chamber")
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if !found {
		t.Fatal("report not found after tick")
	}
	if report.Samples != 600 {
		t.Errorf("Samples = %d, want 600", report.Samples)
	}
	if math.Abs(report.MeanPressure-1e-6) > 1e-12 {
		t.Errorf("MeanPressure = %g, want 1e-6", report.MeanPressure)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestMonitor_Tick_DetectsEvents(t *testing.T) {
	// A pump-down into a quiet floor with one burst.
	series := testSeries(1500)
	for i := 0; i < 100; i++ {
		series.Pressure[i] = math.Pow(10, -2-4*float64(i)/99)
	}
	for i := 100; i < 1500; i++ {
		series.Pressure[i] = 1e-6
	}
	series.Pressure[800] = 5e-4

	src := &fakeSource{series: series}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	if err := m.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	report, found, _ := store.GetLatest(context.Background(), "main-chamber")
	if !found {
		t.Fatal("report not found after tick")
	}
	if len(report.Cycles) != 1 {
		t.Errorf("got %d cycles, want 1", len(report.Cycles))
	}
	if len(report.Spikes) == 0 {
		t.Error("no spikes detected")
	}
	if report.BasePressure != 1e-6 {
		t.Errorf("BasePressure = %g, want 1e-6", report.BasePressure)
	}
}

func TestMonitor_Tick_CollectError(t *testing.T) {
	src := &fakeSource{err: errors.New("gauge offline")}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	err := m.Tick(context.Background())
	if err == nil {
		t.Fatal("Tick() should return error when collect fails")
	}

	// No report should be stored on collect failure
	_, found, _ := store.GetLatest(context.Background(), "main-chamber")
	if found {
		t.Error("report should not be stored when collect fails")
	}
}

func TestMonitor_Tick_EmptyWindow(t *testing.T) {
	// An empty window still produces a (sanitized) report.
	src := &fakeSource{series: &source.Series{}}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	if err := m.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	report, found, _ := store.GetLatest(context.Background(), "main-chamber")
	if !found {
		t.Fatal("report not found after tick")
	}
	if report.Samples != 0 {
		t.Errorf("Samples = %d, want 0", report.Samples)
	}
	if report.BasePressure != 0 {
		t.Errorf("BasePressure = %g, want 0 (sanitized)", report.BasePressure)
	}
}

func TestMonitor_Run_ContextCancellation(t *testing.T) {
	src := &fakeSource{series: testSeries(10)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, time.Minute)
	if err != context.Canceled {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestMonitor_Run_Timeout(t *testing.T) {
	src := &fakeSource{series: testSeries(10)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := m.Run(ctx, time.Hour)
	if err != context.DeadlineExceeded {
		t.Errorf("Run() error = %v, want %v", err, context.DeadlineExceeded)
	}

	// The initial tick fires before the first interval elapses
	if src.calls == 0 {
		t.Error("Run() should perform an initial tick")
	}
}

func TestMonitor_Run_TicksOnInterval(t *testing.T) {
	src := &fakeSource{series: testSeries(10)}
	store := storage.NewMemoryStore()

	m := NewMonitor("main-chamber", src, store, storage.DefaultAnalysisParams(), time.Hour, testLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	_ = m.Run(ctx, 30*time.Millisecond)

	// Initial tick plus at least two interval ticks
	if src.calls < 3 {
		t.Errorf("calls = %d, want >= 3", src.calls)
	}
}
