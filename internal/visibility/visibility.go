// Package visibility turns the continuous elevation curve of a (station,
// source) pair into discrete above-threshold time intervals, and aggregates
// those scans across a whole catalog.
//
// The scan samples the elevation at a fixed cadence and runs a two-state
// (below/above) machine over the stream. Threshold crossings are linearly
// interpolated between adjacent samples, so interval boundaries are not
// biased to the sample grid.
package visibility

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds reported to callers. All are recoverable input errors, matched
// with errors.Is.
var (
	ErrInvalidWindow    = errors.New("invalid observation window")
	ErrInvalidThreshold = errors.New("invalid elevation threshold")
)

// Window is the time horizon to scan: [Start, End] sampled every Step.
type Window struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Validate reports ErrInvalidWindow for a non-positive step or an end that
// does not follow the start.
func (w Window) Validate() error {
	if w.Step <= 0 {
		return fmt.Errorf("step %v must be positive: %w", w.Step, ErrInvalidWindow)
	}
	if !w.End.After(w.Start) {
		return fmt.Errorf("end %v must be after start %v: %w", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339), ErrInvalidWindow)
	}
	return nil
}

// SampleCount returns the number of samples the scan will evaluate.
// Callers use this to bound CPU before starting a scan.
func (w Window) SampleCount() int {
	return int(w.End.Sub(w.Start)/w.Step) + 1
}

// validThreshold reports ErrInvalidThreshold for thresholds outside [-90, 90].
func validThreshold(minElDeg float64) error {
	if minElDeg < -90 || minElDeg > 90 {
		return fmt.Errorf("minimum elevation %.4f outside [-90, 90]: %w", minElDeg, ErrInvalidThreshold)
	}
	return nil
}

// Sample is one evaluated point of the horizontal-coordinate track.
// Transient: produced and consumed within one scan, never persisted.
type Sample struct {
	Time  time.Time `json:"time"`
	AzDeg float64   `json:"az_deg"`
	ElDeg float64   `json:"el_deg"`
}

// Interval is one contiguous span during which the source stays above the
// minimum elevation at the station. Start and End sit on the interpolated
// threshold crossings unless clipped by the window boundary.
type Interval struct {
	StationID string    `json:"station_id"`
	SourceID  string    `json:"source_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PeakEl    float64   `json:"peak_elevation_deg"`
	PeakTime  time.Time `json:"peak_time"`
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}
