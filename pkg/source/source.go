// Package source provides pressure data connectors that retrieve gauge
// readings from external systems and normalize them into a common Series
// structure.
//
// Each source implements the Source interface and can be plugged into the
// vacmon monitor loop. Available sources include:
//   - PrometheusSource: fetches gauge readings via the Prometheus HTTP API
//   - HTTPSource: generic source for any REST API with JSON responses
//   - FileSource: replays a CSV pressure log, for offline analysis
//
// Sources are intentionally lightweight. They focus on pulling raw samples,
// shaping them into [Series] objects, and leaving all analysis to the
// engine in pkg/vacuum.
package source

import (
	"context"
	"time"
)

// Series is an ordered pressure signal returned by a source. Times and
// Pressure run in parallel and are sorted ascending by time.
type Series struct {
	Times    []time.Time
	Pressure []float64
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.Pressure) }

// Seconds returns the time axis as absolute Unix seconds with sub-second
// precision, in the shape the analysis functions take.
func (s *Series) Seconds() []float64 {
	out := make([]float64, len(s.Times))
	for i, t := range s.Times {
		out[i] = float64(t.UnixNano()) / float64(time.Second)
	}
	return out
}

// Source is the interface all vacmon pressure sources implement.
//
// Sources are responsible for fetching raw gauge data from an external
// system (Prometheus, an HTTP API, a log file), shaping it into a Series,
// and returning it for analysis.
//
// The Collect() call is synchronous and should respect context cancellation
// and deadlines.
type Source interface {
	// Collect fetches pressure samples for the last windowSeconds and
	// returns them as a Series sorted by time.
	Collect(ctx context.Context, windowSeconds int) (*Series, error)

	// Name returns a short, unique identifier for the source.
	// Example: "prometheus", "http", "file".
	Name() string
}
