// Package main implements the core monitor loop orchestration.
//
// This file contains the Monitor type which orchestrates the analysis pipeline:
//
//	collect → analyze → store
//
// The Monitor runs continuously via Run(), executing Tick() at regular
// intervals. Each tick pulls the latest pressure window from the source, runs
// the full analysis suite over it, and updates the stored report that clients
// consume via HTTP API.
//
// The loop is instrumented with Prometheus metrics tracking the duration of
// each pipeline stage (collect, analyze) and any errors encountered during
// execution.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hipstereclipse/vacmon/cmd/vacmond/metrics"
	"github.com/hipstereclipse/vacmon/pkg/source"
	"github.com/hipstereclipse/vacmon/pkg/storage"
)

// Monitor orchestrates the analysis loop: collect → analyze → store.
type Monitor struct {
	chamber string
	source  source.Source
	store   storage.Store
	params  storage.AnalysisParams
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewMonitor creates a new Monitor.
func NewMonitor(
	chamber string,
	src source.Source,
	store storage.Store,
	params storage.AnalysisParams,
	window time.Duration,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		chamber: chamber,
		source:  src,
		store:   store,
		params:  params,
		window:  window,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes the analysis loop at regular intervals.
// Blocks until context is canceled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) error {
	m.logger.Info("starting monitor loop", "interval", interval, "window", m.window)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := m.Tick(ctx); err != nil {
		m.logger.Error("initial monitor tick failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.Tick(ctx); err != nil {
				m.logger.Error("monitor tick failed", "error", err)
			}
		}
	}
}

// Tick performs one analysis cycle.
// Exported for testing purposes.
func (m *Monitor) Tick(ctx context.Context) error {
	start := time.Now()
	m.logger.Debug("starting monitor tick")

	series, collectDuration, err := m.collect(ctx)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordError("source", "collect_failed")
		}
		return fmt.Errorf("collect: %w", err)
	}

	report, analyzeDuration := m.analyze(series)

	if err := m.storeReport(ctx, report); err != nil {
		if m.metrics != nil {
			m.metrics.RecordError("store", "put_failed")
		}
		return fmt.Errorf("store: %w", err)
	}

	if m.metrics != nil {
		m.metrics.SetReportAge(0) // Just generated
		m.metrics.SetBasePressure(report.BasePressure)
		m.metrics.SetNoiseRMS(report.NoiseRMS)
		m.metrics.SetLeakRate(report.LeakRate)
		m.metrics.SetSpikesDetected(len(report.Spikes))
		m.metrics.SetPumpdownCycles(len(report.Cycles))
	}

	totalDuration := time.Since(start)
	m.logger.Info("monitor tick complete",
		"chamber", m.chamber,
		"samples", report.Samples,
		"base_pressure", report.BasePressure,
		"spikes", len(report.Spikes),
		"cycles", len(report.Cycles),
		"collect_ms", collectDuration.Milliseconds(),
		"analyze_ms", analyzeDuration.Milliseconds(),
		"total_ms", totalDuration.Milliseconds(),
	)

	return nil
}

// collect retrieves the pressure window from the source.
func (m *Monitor) collect(ctx context.Context) (*source.Series, time.Duration, error) {
	start := time.Now()

	series, err := m.source.Collect(ctx, int(m.window.Seconds()))
	if err != nil {
		return nil, 0, err
	}

	duration := time.Since(start)

	if m.metrics != nil {
		m.metrics.RecordCollect(duration.Seconds())
	}

	m.logger.Info("collected pressure samples",
		"source", m.source.Name(),
		"samples", series.Len(),
		"window_seconds", int(m.window.Seconds()),
		"duration_ms", duration.Milliseconds(),
	)

	return series, duration, nil
}

// analyze runs the full analysis suite over the collected window.
// Analysis never fails; an empty or degenerate window produces a report
// with sanitized zero metrics.
func (m *Monitor) analyze(series *source.Series) (storage.Report, time.Duration) {
	start := time.Now()

	report := storage.NewReport(m.chamber, int(m.window.Seconds()), series.Pressure, series.Seconds(), m.params)

	duration := time.Since(start)

	if m.metrics != nil {
		m.metrics.RecordAnalyze(duration.Seconds())
	}

	m.logger.Debug("analyzed window",
		"samples", report.Samples,
		"duration_ms", duration.Milliseconds(),
	)

	return report, duration
}

// storeReport persists the analysis report.
func (m *Monitor) storeReport(ctx context.Context, report storage.Report) error {
	if err := m.store.Put(ctx, report); err != nil {
		return err
	}

	m.logger.Debug("stored report", "chamber", m.chamber)
	return nil
}
