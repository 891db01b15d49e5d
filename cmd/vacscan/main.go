// Command vacscan runs the vacuum analysis suite over a recorded pressure log.
//
// It reads a CSV pressure log, runs the same analysis pass the monitor runs
// over live data, and writes the resulting report as JSON to stdout or a file.
// Useful for post-mortem analysis of chamber logs and for validating analysis
// tunables offline.
//
// Usage:
//
//	vacscan -file=chamber.csv -chamber=main-chamber
//	vacscan -file=chamber.csv -window=1h -pretty -output=report.json
//
// The CSV file needs a header row; column names default to "timestamp" and
// "pressure" and can be overridden with flags.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hipstereclipse/vacmon/pkg/source"
	"github.com/hipstereclipse/vacmon/pkg/storage"
)

func main() {
	var (
		file            = flag.String("file", "", "CSV pressure log to analyze (required)")
		chamber         = flag.String("chamber", "chamber", "Chamber name for the report")
		timestampColumn = flag.String("timestamp-column", "", "Timestamp column name (default: timestamp)")
		pressureColumn  = flag.String("pressure-column", "", "Pressure column name (default: pressure)")
		timestampFormat = flag.String("timestamp-format", "", "Timestamp format: rfc3339, unix, unix_milli, or a Go layout")
		window          = flag.Duration("window", 0, "Trailing window to analyze (0 = whole file)")
		output          = flag.String("output", "-", "Output file (- = stdout)")
		pretty          = flag.Bool("pretty", false, "Indent the JSON output")

		sampleRate        = flag.Float64("sample-rate", 1.0, "Nominal sample rate in Hz")
		baseWindowMinutes = flag.Float64("base-window-minutes", 10, "Base pressure rolling window in minutes")
		spikeFactor       = flag.Float64("spike-factor", 3, "Spike threshold in standard deviations")
		spikeWindow       = flag.Int("spike-window", 100, "Rolling window for spike baselines in samples")
		cycleMinDrop      = flag.Float64("cycle-min-drop", 2, "Minimum pressure drop in decades for a pump-down cycle")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	src := &source.FileSource{
		Path:            *file,
		TimestampColumn: *timestampColumn,
		PressureColumn:  *pressureColumn,
		TimestampFormat: *timestampFormat,
	}

	params := storage.DefaultAnalysisParams()
	params.SampleRateHz = *sampleRate
	params.BaseWindowMinutes = *baseWindowMinutes
	params.SpikeThresholdFactor = *spikeFactor
	params.SpikeWindow = *spikeWindow
	params.CycleMinDrop = *cycleMinDrop

	data, err := scan(context.Background(), src, *chamber, *window, params, *pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *output == "-" {
		fmt.Println(string(data))
		return
	}

	if err := os.WriteFile(*output, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", *output, err)
		os.Exit(1)
	}
}

// scan reads the pressure log, runs the analysis pass, and encodes the report.
func scan(ctx context.Context, src *source.FileSource, chamber string, window time.Duration, params storage.AnalysisParams, pretty bool) ([]byte, error) {
	series, err := src.Collect(ctx, int(window.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path, err)
	}

	windowSeconds := int(window.Seconds())
	if windowSeconds <= 0 && series.Len() > 1 {
		windowSeconds = int(series.Times[series.Len()-1].Sub(series.Times[0]).Seconds())
	}

	report := storage.NewReport(chamber, windowSeconds, series.Pressure, series.Seconds(), params)

	if pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
