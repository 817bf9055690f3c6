package visibility

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/metrics"
)

// PairResult holds the outcome of scanning one (station, source) pair.
// A pair that failed validation carries its error message and no intervals;
// other pairs are unaffected.
type PairResult struct {
	StationID string     `json:"station_id"`
	SourceID  string     `json:"source_id"`
	Intervals []Interval `json:"intervals"`
	Error     string     `json:"error,omitempty"`
}

// ComputeAll scans the Cartesian product of stations and sources over the
// window. Each pair runs in its own goroutine, bounded by a semaphore of
// `workers` slots (NumCPU when workers < 1).
//
// Window and threshold problems fail the whole call; per-pair coordinate
// problems are isolated into that pair's result. Results come back in input
// product order (stations outer, sources inner) and intervals within a pair
// are time-ordered, so identical inputs produce identical output.
//
// When ctx is cancelled the partial computation is discarded and ctx.Err()
// is returned.
func ComputeAll(ctx context.Context, stations []catalog.Station, sources []catalog.Source, window Window, minElDeg float64, workers int) ([]PairResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := validThreshold(minElDeg); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	results := make([]PairResult, len(stations)*len(sources))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	idx := 0
	for _, st := range stations {
		for _, src := range sources {
			wg.Add(1)
			go func(i int, st catalog.Station, src catalog.Source) {
				defer wg.Done()

				res := PairResult{StationID: st.ID, SourceID: src.ID}

				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					res.Error = "cancelled"
					metrics.RecordPair("cancelled")
					results[i] = res
					return
				}

				scan, err := NewScan(st, src, window, minElDeg)
				if err != nil {
					res.Error = err.Error()
					metrics.RecordPair("error")
					results[i] = res
					return
				}

				res.Intervals = scan.Run()
				metrics.RecordPair("ok")
				metrics.AddIntervals(len(res.Intervals))
				results[i] = res
			}(idx, st, src)
			idx++
		}
	}

	wg.Wait()
	metrics.RecordScan(time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
