package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// PrometheusSource fetches pressure samples from the Prometheus HTTP API.
// It issues a /api/v1/query_range call and returns a *Series.
//
// The query is expected to select a single gauge; if multiple series come
// back, values at the same timestamp are AVERAGED, since pressures from
// redundant gauges on one chamber are interchangeable readings rather than
// additive quantities.
type PrometheusSource struct {
	// ServerURL is the base URL to Prometheus, e.g. http://prometheus.monitoring.svc:9090
	ServerURL string
	// Query is the PromQL expression selecting the pressure gauge.
	Query string
	// StepSeconds controls the resolution (defaults to 1s if <= 0).
	StepSeconds int
	// HTTPClient is optional; if nil a default client with timeout is used.
	HTTPClient *http.Client
}

func (p *PrometheusSource) Name() string { return "prometheus" }

// Collect implements Source. It queries Prometheus for the last
// windowSeconds worth of readings at StepSeconds resolution. It respects
// the provided context for cancellation and deadlines.
func (p *PrometheusSource) Collect(ctx context.Context, windowSeconds int) (*Series, error) {
	if p.ServerURL == "" || p.Query == "" {
		return &Series{}, errors.New("prometheus source: ServerURL and Query are required")
	}
	step := p.StepSeconds
	if step <= 0 {
		step = 1
	}
	now := time.Now().UTC().Truncate(time.Second)
	start := now.Add(-time.Duration(windowSeconds) * time.Second)

	u, err := url.Parse(p.ServerURL)
	if err != nil {
		return &Series{}, fmt.Errorf("invalid ServerURL: %w", err)
	}
	u.Path = "/api/v1/query_range"

	q := u.Query()
	q.Set("query", p.Query)
	q.Set("start", fmt.Sprintf("%d", start.Unix()))
	q.Set("end", fmt.Sprintf("%d", now.Unix()))
	q.Set("step", fmt.Sprintf("%d", step))
	u.RawQuery = q.Encode()

	cli := p.HTTPClient
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &Series{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cli.Do(req)
	if err != nil {
		return &Series{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Series{}, fmt.Errorf("prometheus: status %d", resp.StatusCode)
	}

	var pr prometheusRangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return &Series{}, fmt.Errorf("decode prometheus response: %w", err)
	}
	if pr.Status != "success" {
		return &Series{}, fmt.Errorf("prometheus status: %s", pr.Status)
	}

	return averageRangeResult(pr.Data.Result)
}

// prometheusRangeResponse represents the response from Prometheus (and
// compatible systems).
type prometheusRangeResponse struct {
	Status string              `json:"status"`
	Data   prometheusRangeData `json:"data"`
}

type prometheusRangeData struct {
	ResultType string                 `json:"resultType"`
	Result     []prometheusRangeSerie `json:"result"`
}

type prometheusRangeSerie struct {
	Metric map[string]string `json:"metric"`
	// Values is an array of [ <unix_time_float>, "<value_string>" ]
	Values [][]any `json:"values"`
}

// averageRangeResult merges multiple series into one signal, averaging
// values at the same timestamp.
func averageRangeResult(series []prometheusRangeSerie) (*Series, error) {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, s := range series {
		for _, pair := range s.Values {
			if len(pair) != 2 {
				return nil, fmt.Errorf("invalid value pair length: %d", len(pair))
			}

			var tsSec int64
			switch v := pair[0].(type) {
			case float64:
				tsSec = int64(v)
			case json.Number:
				f, _ := v.Float64()
				tsSec = int64(f)
			default:
				return nil, fmt.Errorf("unexpected timestamp type %T", v)
			}

			var val float64
			switch vv := pair[1].(type) {
			case string:
				f, err := strconv.ParseFloat(vv, 64)
				if err != nil {
					return nil, fmt.Errorf("parse value: %w", err)
				}
				val = f
			case float64:
				val = vv
			case json.Number:
				f, _ := vv.Float64()
				val = f
			default:
				return nil, fmt.Errorf("unexpected value type %T", vv)
			}
			sums[tsSec] += val
			counts[tsSec]++
		}
	}

	stamps := make([]int64, 0, len(sums))
	for ts := range sums {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	out := &Series{
		Times:    make([]time.Time, 0, len(stamps)),
		Pressure: make([]float64, 0, len(stamps)),
	}
	for _, ts := range stamps {
		out.Times = append(out.Times, time.Unix(ts, 0).UTC())
		out.Pressure = append(out.Pressure, sums[ts]/float64(counts[ts]))
	}
	return out, nil
}
