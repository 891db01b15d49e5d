package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPSource is a generic HTTP source that can call any REST API endpoint
// and extract pressure samples using JSON path expressions.
//
// It supports:
//   - Configurable HTTP method (GET, POST, etc.)
//   - Template-based request body with variables: {{.WindowSeconds}}, {{.Start}}, {{.End}}
//   - Custom headers including authentication (Bearer tokens, API keys, etc.)
//   - JSON path extraction for timestamps and pressures using gjson syntax
//   - Flexible timestamp parsing (RFC3339, Unix seconds, Unix milliseconds)
//
// Example configuration for a gauge controller's REST API:
//
//	src := &HTTPSource{
//	    URL: "https://gauges.example.com/api/readings",
//	    Method: "POST",
//	    Headers: map[string]string{
//	        "Authorization": "Bearer {{.Token}}",
//	        "Content-Type": "application/json",
//	    },
//	    Body: `{"channel": "ch1", "window": "{{.WindowSeconds}}s"}`,
//	    PressurePath: "readings.#.mbar",
//	    TimestampPath: "readings.#.timestamp",
//	}
type HTTPSource struct {
	// URL is the endpoint to call (required)
	URL string

	// Method is the HTTP method (GET, POST, etc.). Defaults to GET if empty.
	Method string

	// Headers are custom HTTP headers to include in the request.
	// Values can use template variables like {{.Token}}.
	Headers map[string]string

	// Body is the request body template (for POST/PUT). Supports variables:
	//   {{.WindowSeconds}} - the collection window in seconds
	//   {{.Start}}         - start time as Unix timestamp
	//   {{.End}}           - end time as Unix timestamp
	//   {{.StartRFC3339}}  - start time as RFC3339 string
	//   {{.EndRFC3339}}    - end time as RFC3339 string
	Body string

	// PressurePath is the gjson path to extract pressure values from the
	// response. Use "#" for arrays, e.g. "readings.#.mbar".
	PressurePath string

	// TimestampPath is the gjson path to extract timestamps from the
	// response. Must return the same number of elements as PressurePath.
	TimestampPath string

	// TimestampFormat specifies how to parse timestamps:
	//   "rfc3339"    - RFC3339 strings (default)
	//   "unix"       - Unix seconds (float or int)
	//   "unix_milli" - Unix milliseconds (float or int)
	TimestampFormat string

	// HTTPClient is optional; if nil a default client with timeout is used.
	HTTPClient *http.Client

	// TemplateVars are custom variables available in Body and Headers
	// templates. Use this to pass tokens, API keys, etc.
	TemplateVars map[string]string
}

func (h *HTTPSource) Name() string { return "http" }

// Collect implements Source. It calls the configured HTTP endpoint and
// extracts pressure samples using the configured JSON paths.
func (h *HTTPSource) Collect(ctx context.Context, windowSeconds int) (*Series, error) {
	if err := h.ValidateConfig(); err != nil {
		return &Series{}, fmt.Errorf("http source: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	start := now.Add(-time.Duration(windowSeconds) * time.Second)

	templateData := map[string]any{
		"WindowSeconds": windowSeconds,
		"Start":         start.Unix(),
		"End":           now.Unix(),
		"StartRFC3339":  start.Format(time.RFC3339),
		"EndRFC3339":    now.Format(time.RFC3339),
	}

	for k, v := range h.TemplateVars {
		templateData[k] = v
	}

	method := h.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if h.Body != "" {
		renderedBody, err := renderTemplate(h.Body, templateData)
		if err != nil {
			return &Series{}, fmt.Errorf("render body template: %w", err)
		}
		bodyReader = bytes.NewBufferString(renderedBody)
	}

	cli := h.HTTPClient
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, method, h.URL, bodyReader)
	if err != nil {
		return &Series{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range h.Headers {
		rendered, err := renderTemplate(value, templateData)
		if err != nil {
			return &Series{}, fmt.Errorf("render header %s: %w", key, err)
		}
		req.Header.Set(key, rendered)
	}

	resp, err := cli.Do(req)
	if err != nil {
		return &Series{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &Series{}, fmt.Errorf("http status %d: %s", resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Series{}, fmt.Errorf("read response: %w", err)
	}

	pressures := gjson.GetBytes(respBody, h.PressurePath)
	timestamps := gjson.GetBytes(respBody, h.TimestampPath)

	if !pressures.Exists() {
		return &Series{}, fmt.Errorf("pressure path %q not found in response", h.PressurePath)
	}
	if !timestamps.Exists() {
		return &Series{}, fmt.Errorf("timestamp path %q not found in response", h.TimestampPath)
	}

	pArray := pressures.Array()
	tsArray := timestamps.Array()

	if len(pArray) != len(tsArray) {
		return &Series{}, fmt.Errorf("pressure count (%d) != timestamp count (%d)", len(pArray), len(tsArray))
	}

	type sample struct {
		ts time.Time
		p  float64
	}
	samples := make([]sample, 0, len(pArray))
	for i := range pArray {
		ts, err := h.parseTimestamp(tsArray[i])
		if err != nil {
			return &Series{}, fmt.Errorf("parse timestamp[%d]: %w", i, err)
		}
		samples = append(samples, sample{ts: ts, p: pArray[i].Float()})
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].ts.Before(samples[j].ts)
	})

	out := &Series{
		Times:    make([]time.Time, 0, len(samples)),
		Pressure: make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		out.Times = append(out.Times, s.ts.UTC())
		out.Pressure = append(out.Pressure, s.p)
	}
	return out, nil
}

// parseTimestamp parses a timestamp according to the configured format
func (h *HTTPSource) parseTimestamp(value gjson.Result) (time.Time, error) {
	format := h.TimestampFormat
	if format == "" {
		format = "rfc3339"
	}

	switch format {
	case "rfc3339":
		return time.Parse(time.RFC3339, value.String())

	case "unix":
		// Unix seconds (supports both int and float)
		sec := value.Float()
		return time.Unix(int64(sec), 0).UTC(), nil

	case "unix_milli":
		ms := value.Float()
		return time.UnixMilli(int64(ms)).UTC(), nil

	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp format: %s", format)
	}
}

// ValidateConfig checks if the source configuration is valid
func (h *HTTPSource) ValidateConfig() error {
	if h.URL == "" {
		return errors.New("url is required")
	}
	if h.PressurePath == "" {
		return errors.New("pressurePath is required")
	}
	if h.TimestampPath == "" {
		return errors.New("timestampPath is required")
	}

	validFormats := map[string]bool{
		"":           true,
		"rfc3339":    true,
		"unix":       true,
		"unix_milli": true,
	}
	if !validFormats[h.TimestampFormat] {
		return fmt.Errorf("invalid timestampFormat: %s (must be rfc3339, unix, or unix_milli)", h.TimestampFormat)
	}

	return nil
}

// renderTemplate renders a text template with the given data
func renderTemplate(tmplStr string, data map[string]any) (string, error) {
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr, nil
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
