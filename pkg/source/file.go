package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// FileSource replays a CSV pressure log. The file needs a timestamp column
// and a pressure column; everything else is ignored. Useful for offline
// analysis of logs exported from gauge controllers or data loggers.
type FileSource struct {
	// Path is the CSV file to read (required).
	Path string

	// TimestampColumn and PressureColumn name the columns to read. They
	// default to "timestamp" and "pressure". Column matching is done against
	// the header row.
	TimestampColumn string
	PressureColumn  string

	// TimestampFormat is a Go time layout for the timestamp column, or
	// "unix" / "unix_milli" for numeric stamps. Defaults to RFC3339.
	TimestampFormat string

	// Comma overrides the field delimiter (defaults to ',').
	Comma rune
}

func (f *FileSource) Name() string { return "file" }

// Collect implements Source. It reads the whole file, sorts the rows by
// timestamp, and returns the samples whose timestamps fall within the last
// windowSeconds relative to the latest sample, so a replayed log behaves
// like a live window. A windowSeconds <= 0 returns the whole file.
func (f *FileSource) Collect(ctx context.Context, windowSeconds int) (*Series, error) {
	if f.Path == "" {
		return &Series{}, errors.New("file source: Path is required")
	}
	if err := ctx.Err(); err != nil {
		return &Series{}, err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return &Series{}, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if f.Comma != 0 {
		reader.Comma = f.Comma
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return &Series{}, fmt.Errorf("read %s: %w", f.Path, err)
	}
	if len(records) < 2 {
		return &Series{}, nil
	}

	tsCol, pCol, err := f.resolveColumns(records[0])
	if err != nil {
		return &Series{}, err
	}

	type sample struct {
		ts time.Time
		p  float64
	}
	samples := make([]sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		if tsCol >= len(rec) || pCol >= len(rec) {
			return &Series{}, fmt.Errorf("row %d: too few columns", i+2)
		}

		ts, err := f.parseTimestamp(rec[tsCol])
		if err != nil {
			return &Series{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		p, err := strconv.ParseFloat(rec[pCol], 64)
		if err != nil {
			return &Series{}, fmt.Errorf("row %d: parse pressure: %w", i+2, err)
		}

		samples = append(samples, sample{ts: ts, p: p})
	}

	// Logged files are not guaranteed to be in chronological order.
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].ts.Before(samples[j].ts)
	})

	out := &Series{
		Times:    make([]time.Time, 0, len(samples)),
		Pressure: make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		out.Times = append(out.Times, s.ts)
		out.Pressure = append(out.Pressure, s.p)
	}

	if windowSeconds > 0 && out.Len() > 0 {
		cutoff := out.Times[out.Len()-1].Add(-time.Duration(windowSeconds) * time.Second)
		start := 0
		for start < out.Len() && out.Times[start].Before(cutoff) {
			start++
		}
		out.Times = out.Times[start:]
		out.Pressure = out.Pressure[start:]
	}

	return out, nil
}

func (f *FileSource) resolveColumns(header []string) (tsCol, pCol int, err error) {
	tsName := f.TimestampColumn
	if tsName == "" {
		tsName = "timestamp"
	}
	pName := f.PressureColumn
	if pName == "" {
		pName = "pressure"
	}

	tsCol, pCol = -1, -1
	for i, name := range header {
		switch name {
		case tsName:
			tsCol = i
		case pName:
			pCol = i
		}
	}
	if tsCol < 0 {
		return 0, 0, fmt.Errorf("column %q not found in header", tsName)
	}
	if pCol < 0 {
		return 0, 0, fmt.Errorf("column %q not found in header", pName)
	}
	return tsCol, pCol, nil
}

func (f *FileSource) parseTimestamp(raw string) (time.Time, error) {
	switch f.TimestampFormat {
	case "", "rfc3339":
		return time.Parse(time.RFC3339, raw)
	case "unix":
		sec, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp: %w", err)
		}
		return time.Unix(0, int64(sec*float64(time.Second))).UTC(), nil
	case "unix_milli":
		ms, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp: %w", err)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	default:
		return time.Parse(f.TimestampFormat, raw)
	}
}
