package visibility

import (
	"iter"
	"time"

	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/transform"
)

// Scan evaluates one (station, source) pair over a window. It is immutable
// after construction; Intervals and Samples may be called any number of
// times and from multiple goroutines.
type Scan struct {
	station catalog.Station
	source  catalog.Source
	window  Window
	minEl   float64
}

// NewScan validates all inputs up front and returns a ready scan.
// Errors: ErrInvalidWindow, ErrInvalidThreshold, catalog.ErrInvalidCoordinate.
func NewScan(station catalog.Station, source catalog.Source, window Window, minElDeg float64) (*Scan, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := validThreshold(minElDeg); err != nil {
		return nil, err
	}
	if err := station.Validate(); err != nil {
		return nil, err
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}

	return &Scan{
		station: station.Canonical(),
		source:  source,
		window:  window,
		minEl:   minElDeg,
	}, nil
}

// at evaluates the horizontal coordinates of the source at time t.
func (s *Scan) at(t time.Time) Sample {
	lst := transform.LSTHours(t, s.station.LonDeg)
	az, el := transform.Horizontal(s.source.RADeg, s.source.DecDeg, s.station.LatDeg, lst)
	return Sample{Time: t, AzDeg: az, ElDeg: el}
}

// Samples returns the raw per-sample track for plotting: one point per step
// from window start to window end inclusive.
func (s *Scan) Samples() []Sample {
	out := make([]Sample, 0, s.window.SampleCount())
	for t := s.window.Start; !t.After(s.window.End); t = t.Add(s.window.Step) {
		out = append(out, s.at(t))
	}
	return out
}

// Intervals returns the above-threshold intervals as a lazy sequence.
// The sequence is finite, restartable, and yields intervals in time order.
//
// Boundary rules: a source already above threshold at the window start opens
// its interval exactly at the start; a source still above threshold when the
// window ends closes at the end. Neither boundary is interpolated — there is
// no sample beyond the window to interpolate against.
func (s *Scan) Intervals() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		prev := s.at(s.window.Start)

		var cur Interval
		open := prev.ElDeg > s.minEl
		if open {
			cur = s.newInterval(s.window.Start, prev)
		}

		for t := s.window.Start.Add(s.window.Step); !t.After(s.window.End); t = t.Add(s.window.Step) {
			smp := s.at(t)

			switch {
			case open && smp.ElDeg <= s.minEl:
				// Fade: interpolate the set instant and emit.
				cur.End = s.crossing(prev, smp)
				if !yield(cur) {
					return
				}
				open = false

			case !open && smp.ElDeg > s.minEl:
				// Rise: interpolate the rise instant and open a candidate.
				cur = s.newInterval(s.crossing(prev, smp), smp)
				open = true
			}

			if open && smp.ElDeg > cur.PeakEl {
				cur.PeakEl = smp.ElDeg
				cur.PeakTime = smp.Time
			}
			prev = smp
		}

		if open {
			cur.End = s.window.End
			yield(cur)
		}
	}
}

// Run collects all intervals eagerly.
func (s *Scan) Run() []Interval {
	var out []Interval
	for iv := range s.Intervals() {
		out = append(out, iv)
	}
	return out
}

func (s *Scan) newInterval(start time.Time, first Sample) Interval {
	return Interval{
		StationID: s.station.ID,
		SourceID:  s.source.ID,
		Start:     start,
		PeakEl:    first.ElDeg,
		PeakTime:  first.Time,
	}
}

// crossing linearly interpolates the instant at which the elevation curve
// crossed the threshold between two adjacent samples.
func (s *Scan) crossing(a, b Sample) time.Time {
	span := b.Time.Sub(a.Time)
	frac := (s.minEl - a.ElDeg) / (b.ElDeg - a.ElDeg)
	return a.Time.Add(time.Duration(frac * float64(span)))
}
