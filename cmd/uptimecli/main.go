// Command uptimecli computes above-threshold visibility windows for
// station/source catalogs and prints them, one line per interval.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/transform"
	"github.com/M-AKIMOTOO/uptimeplot/internal/visibility"
)

func main() {
	var (
		stationFile string
		sourceFile  string
		date        string
		hours       float64
		stepSeconds int
		minEl       float64
		workers     int
	)

	pflag.StringVarP(&stationFile, "station-file", "a", "", "JSON station catalog (required)")
	pflag.StringVarP(&sourceFile, "source-file", "s", "", "JSON source catalog (required)")
	pflag.StringVarP(&date, "date", "d", "", "UTC start of the observation window (default: today 00:00)")
	pflag.Float64VarP(&hours, "hours", "H", 24, "window length in hours")
	pflag.IntVar(&stepSeconds, "step", 60, "sampling step in seconds")
	pflag.Float64VarP(&minEl, "min-el", "e", 10, "minimum elevation in degrees")
	pflag.IntVarP(&workers, "workers", "w", 0, "concurrent pair scans (0 = one per CPU)")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if stationFile == "" || sourceFile == "" {
		fmt.Fprintln(os.Stderr, "both --station-file and --source-file are required")
		pflag.Usage()
		os.Exit(2)
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if date != "" {
		var err error
		start, err = transform.ParseCivilDate(date)
		if err != nil {
			logger.Error("invalid date", "error", err)
			os.Exit(1)
		}
	}

	snap, err := catalog.LoadSnapshot(stationFile, sourceFile)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	window := visibility.Window{
		Start: start,
		End:   start.Add(time.Duration(hours * float64(time.Hour))),
		Step:  time.Duration(stepSeconds) * time.Second,
	}

	results, err := visibility.ComputeAll(context.Background(), snap.Stations, snap.Sources, window, minEl, workers)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("window %s .. %s  step %ds  min elevation %.1f°\n",
		window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339), stepSeconds, minEl)

	failed := 0
	for _, pair := range results {
		if pair.Error != "" {
			fmt.Printf("%-10s %-10s  ERROR %s\n", pair.StationID, pair.SourceID, pair.Error)
			failed++
			continue
		}
		if len(pair.Intervals) == 0 {
			fmt.Printf("%-10s %-10s  never above threshold\n", pair.StationID, pair.SourceID)
			continue
		}
		for _, iv := range pair.Intervals {
			fmt.Printf("%-10s %-10s  %s .. %s  (%s, peak %.1f° at %s)\n",
				pair.StationID, pair.SourceID,
				iv.Start.Format("15:04:05"), iv.End.Format("15:04:05"),
				iv.Duration().Round(time.Second),
				iv.PeakEl, iv.PeakTime.Format("15:04:05"),
			)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
