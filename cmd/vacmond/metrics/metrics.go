// Package metrics provides Prometheus metrics instrumentation for the monitor.
//
// It exposes operational metrics about the monitor's pipeline performance,
// including the duration of each stage (collect, analyze), the age of the
// latest report, headline vacuum readings, and error tracking. All metrics
// are exposed via the /metrics HTTP endpoint for Prometheus scraping.
//
// Metrics exposed:
//   - vacmon_source_collect_seconds: Histogram of pressure collection duration
//   - vacmon_analyze_seconds: Histogram of analysis pass duration
//   - vacmon_report_age_seconds: Gauge of current report age
//   - vacmon_base_pressure: Gauge of the detected base pressure
//   - vacmon_noise_rms: Gauge of the detrended noise RMS
//   - vacmon_leak_rate: Gauge of the fitted leak rate
//   - vacmon_spikes_detected: Gauge of spikes in the latest window
//   - vacmon_pumpdown_cycles: Gauge of pump-down cycles in the latest window
//   - vacmon_errors_total: Counter of errors by component and reason
//
// All metrics include the chamber label for multi-chamber deployments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the monitor.
type Metrics struct {
	SourceCollectSeconds prometheus.Histogram
	AnalyzeSeconds       prometheus.Histogram
	ReportAgeSeconds     prometheus.Gauge
	BasePressure         prometheus.Gauge
	NoiseRMS             prometheus.Gauge
	LeakRate             prometheus.Gauge
	SpikesDetected       prometheus.Gauge
	PumpdownCycles       prometheus.Gauge
	ErrorsTotal          *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New(source, chamber string) *Metrics {
	return &Metrics{
		SourceCollectSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "vacmon_source_collect_seconds",
			Help: "Time spent collecting pressure samples from the source",
			ConstLabels: prometheus.Labels{
				"source":  source,
				"chamber": chamber,
			},
			Buckets: prometheus.DefBuckets, // Default buckets: .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
		}),

		AnalyzeSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "vacmon_analyze_seconds",
			Help: "Time spent running the analysis pass",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
			Buckets: prometheus.DefBuckets,
		}),

		ReportAgeSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_report_age_seconds",
			Help: "Age of the current report in seconds",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		BasePressure: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_base_pressure",
			Help: "Detected base pressure in the latest window (Torr)",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		NoiseRMS: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_noise_rms",
			Help: "Detrended noise RMS in the latest window (Torr)",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		LeakRate: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_leak_rate",
			Help: "Fitted leak rate in the latest window (Torr/s)",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		SpikesDetected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_spikes_detected",
			Help: "Number of pressure spikes detected in the latest window",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		PumpdownCycles: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vacmon_pumpdown_cycles",
			Help: "Number of pump-down cycles detected in the latest window",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}),

		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vacmon_errors_total",
			Help: "Total number of errors by component and reason",
			ConstLabels: prometheus.Labels{
				"chamber": chamber,
			},
		}, []string{"component", "reason"}),
	}
}

// RecordCollect records the time spent collecting pressure samples.
func (m *Metrics) RecordCollect(seconds float64) {
	m.SourceCollectSeconds.Observe(seconds)
}

// RecordAnalyze records the time spent in the analysis pass.
func (m *Metrics) RecordAnalyze(seconds float64) {
	m.AnalyzeSeconds.Observe(seconds)
}

// SetReportAge sets the current report age.
func (m *Metrics) SetReportAge(seconds float64) {
	m.ReportAgeSeconds.Set(seconds)
}

// SetBasePressure sets the detected base pressure.
func (m *Metrics) SetBasePressure(torr float64) {
	m.BasePressure.Set(torr)
}

// SetNoiseRMS sets the detrended noise RMS.
func (m *Metrics) SetNoiseRMS(torr float64) {
	m.NoiseRMS.Set(torr)
}

// SetLeakRate sets the fitted leak rate.
func (m *Metrics) SetLeakRate(torrPerSecond float64) {
	m.LeakRate.Set(torrPerSecond)
}

// SetSpikesDetected sets the spike count for the latest window.
func (m *Metrics) SetSpikesDetected(count int) {
	m.SpikesDetected.Set(float64(count))
}

// SetPumpdownCycles sets the cycle count for the latest window.
func (m *Metrics) SetPumpdownCycles(count int) {
	m.PumpdownCycles.Set(float64(count))
}

// RecordError increments the error counter.
func (m *Metrics) RecordError(component, reason string) {
	m.ErrorsTotal.WithLabelValues(component, reason).Inc()
}
