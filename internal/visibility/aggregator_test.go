package visibility

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
)

var aggStations = []catalog.Station{
	{ID: "YAMAGU32", LatDeg: 35.0, LonDeg: 138.0},
	{ID: "SOUTH01", LatDeg: -30.0, LonDeg: 21.0},
}

var aggSources = []catalog.Source{
	{ID: "ZENITH", RADeg: 180.0, DecDeg: 35.0},
	{ID: "3C273", RADeg: 187.28, DecDeg: 2.05},
}

func TestComputeAll(t *testing.T) {
	results, err := ComputeAll(context.Background(), aggStations, aggSources, dayWindow, 10.0, 4)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}

	if len(results) != len(aggStations)*len(aggSources) {
		t.Fatalf("got %d pair results, want %d", len(results), len(aggStations)*len(aggSources))
	}

	// Results are in product order: stations outer, sources inner.
	i := 0
	for _, st := range aggStations {
		for _, src := range aggSources {
			if results[i].StationID != st.ID || results[i].SourceID != src.ID {
				t.Errorf("result %d keyed (%s, %s), want (%s, %s)",
					i, results[i].StationID, results[i].SourceID, st.ID, src.ID)
			}
			i++
		}
	}

	for _, res := range results {
		if res.Error != "" {
			t.Errorf("pair (%s, %s) unexpected error: %s", res.StationID, res.SourceID, res.Error)
		}
		for j := 1; j < len(res.Intervals); j++ {
			if !res.Intervals[j-1].End.Before(res.Intervals[j].Start) {
				t.Errorf("pair (%s, %s): intervals %d and %d out of order or overlapping",
					res.StationID, res.SourceID, j-1, j)
			}
		}
	}
}

// TestComputeAllPairIsolation: one malformed source produces error entries
// for its pairs only; every other pair still computes.
func TestComputeAllPairIsolation(t *testing.T) {
	sources := append([]catalog.Source{{ID: "BROKEN", RADeg: 10, DecDeg: 120}}, aggSources...)

	results, err := ComputeAll(context.Background(), aggStations, sources, dayWindow, 10.0, 2)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}

	var failed, succeeded int
	for _, res := range results {
		if res.SourceID == "BROKEN" {
			if res.Error == "" {
				t.Errorf("pair (%s, BROKEN) should carry an error", res.StationID)
			}
			if len(res.Intervals) != 0 {
				t.Errorf("failed pair (%s, BROKEN) has intervals", res.StationID)
			}
			failed++
		} else {
			if res.Error != "" {
				t.Errorf("pair (%s, %s) poisoned by sibling failure: %s", res.StationID, res.SourceID, res.Error)
			}
			succeeded++
		}
	}

	if failed != len(aggStations) {
		t.Errorf("got %d failed pairs, want %d", failed, len(aggStations))
	}
	if succeeded != len(aggStations)*len(aggSources) {
		t.Errorf("got %d successful pairs, want %d", succeeded, len(aggStations)*len(aggSources))
	}
}

func TestComputeAllInvalidInputs(t *testing.T) {
	badWindow := Window{Start: dayWindow.Start, End: dayWindow.End, Step: 0}
	if _, err := ComputeAll(context.Background(), aggStations, aggSources, badWindow, 10, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("error = %v, want ErrInvalidWindow", err)
	}

	if _, err := ComputeAll(context.Background(), aggStations, aggSources, dayWindow, 91, 0); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("error = %v, want ErrInvalidThreshold", err)
	}
}

// TestComputeAllCancelled: a torn-down computation discards partial results
// and reports the context error.
func TestComputeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := ComputeAll(ctx, aggStations, aggSources, dayWindow, 10.0, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("cancelled computation returned partial results: %d entries", len(results))
	}
}

// TestComputeAllIdempotent: two runs over the same inputs are bit-identical,
// regardless of worker scheduling.
func TestComputeAllIdempotent(t *testing.T) {
	first, err := ComputeAll(context.Background(), aggStations, aggSources, dayWindow, 10.0, 1)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}
	second, err := ComputeAll(context.Background(), aggStations, aggSources, dayWindow, 10.0, 8)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different results")
	}
}
