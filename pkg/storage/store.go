package storage

import (
	"context"
	"time"

	"github.com/hipstereclipse/vacmon/pkg/vacuum"
)

// Report is the JSON-safe analysis summary stored per chamber. Scalar
// metrics that come out of the engine as NaN or infinite are zeroed before
// storage, since encoding/json cannot represent them; a zeroed metric with
// Samples > 0 means the quantity was undefined for that window.
type Report struct {
	Chamber       string    `json:"chamber"`
	GeneratedAt   time.Time `json:"generatedAt"`
	WindowSeconds int       `json:"windowSeconds"`
	Samples       int       `json:"samples"`

	MinPressure  float64 `json:"minPressure"`
	MaxPressure  float64 `json:"maxPressure"`
	MeanPressure float64 `json:"meanPressure"`
	Stability    float64 `json:"stability"`
	BasePressure float64 `json:"basePressure"`

	NoiseRMS          float64 `json:"noiseRms"`
	PeakToPeak        float64 `json:"peakToPeak"`
	SNRdB             float64 `json:"snrDb"`
	DominantFrequency float64 `json:"dominantFrequency"`

	LeakRate     float64 `json:"leakRate"`
	LeakSlope    float64 `json:"leakSlope"`
	LeakRSquared float64 `json:"leakRSquared"`
	TimeConstant float64 `json:"timeConstant"`

	Spikes       []vacuum.Spike         `json:"spikes,omitempty"`
	LeakSegments []vacuum.LeakSegment   `json:"leakSegments,omitempty"`
	Cycles       []vacuum.PumpdownCycle `json:"cycles,omitempty"`
	Milestones   []vacuum.Milestone     `json:"milestones,omitempty"`
}

type Store interface {
	Put(ctx context.Context, report Report) error
	GetLatest(ctx context.Context, chamber string) (Report, bool, error)
}
