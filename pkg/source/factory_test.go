package source

import "testing"

func TestNew_Prometheus(t *testing.T) {
	src, err := New("prometheus", map[string]string{
		"url":   "http://prom:9090",
		"query": `vacuum_pressure_mbar{chamber="main"}`,
	}, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	p, ok := src.(*PrometheusSource)
	if !ok {
		t.Fatalf("expected *PrometheusSource, got %T", src)
	}
	if p.ServerURL != "http://prom:9090" {
		t.Errorf("ServerURL = %s", p.ServerURL)
	}
	if p.StepSeconds != 1 {
		t.Errorf("StepSeconds = %d, want 1", p.StepSeconds)
	}
}

func TestNew_PrometheusDefaults(t *testing.T) {
	src, err := New("prometheus", map[string]string{"query": "up"}, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if p := src.(*PrometheusSource); p.ServerURL != "http://localhost:9090" {
		t.Errorf("default ServerURL = %s", p.ServerURL)
	}
}

func TestNew_PrometheusMissingQuery(t *testing.T) {
	if _, err := New("prometheus", map[string]string{}, 1); err == nil {
		t.Fatal("expected error for missing query")
	}
}

func TestNew_HTTP(t *testing.T) {
	src, err := New("http", map[string]string{
		"url":             "https://gauges.example.com/api",
		"method":          "POST",
		"body":            `{"channel": "ch1"}`,
		"pressurePath":    "readings.#.mbar",
		"timestampPath":   "readings.#.ts",
		"timestampFormat": "unix",
		"headers":         `{"Authorization": "Bearer tok"}`,
		"templateVars":    `{"Token": "tok"}`,
	}, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	h, ok := src.(*HTTPSource)
	if !ok {
		t.Fatalf("expected *HTTPSource, got %T", src)
	}
	if h.PressurePath != "readings.#.mbar" {
		t.Errorf("PressurePath = %s", h.PressurePath)
	}
	if h.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("Headers = %v", h.Headers)
	}
	if h.TemplateVars["Token"] != "tok" {
		t.Errorf("TemplateVars = %v", h.TemplateVars)
	}
}

func TestNew_HTTPMissingPaths(t *testing.T) {
	_, err := New("http", map[string]string{"url": "http://example.com"}, 1)
	if err == nil {
		t.Fatal("expected error for missing paths")
	}
}

func TestNew_HTTPInvalidHeadersJSON(t *testing.T) {
	_, err := New("http", map[string]string{
		"url":           "http://example.com",
		"pressurePath":  "p",
		"timestampPath": "t",
		"headers":       "{not json",
	}, 1)
	if err == nil {
		t.Fatal("expected error for invalid headers JSON")
	}
}

func TestNew_File(t *testing.T) {
	src, err := New("file", map[string]string{
		"path":            "/var/log/pressure.csv",
		"timestampColumn": "ts",
		"pressureColumn":  "mbar",
		"comma":           ";",
	}, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	f, ok := src.(*FileSource)
	if !ok {
		t.Fatalf("expected *FileSource, got %T", src)
	}
	if f.Path != "/var/log/pressure.csv" {
		t.Errorf("Path = %s", f.Path)
	}
	if f.Comma != ';' {
		t.Errorf("Comma = %q, want ';'", f.Comma)
	}
}

func TestNew_FileMissingPath(t *testing.T) {
	if _, err := New("file", map[string]string{}, 1); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestNew_UnknownKind(t *testing.T) {
	if _, err := New("kafka", map[string]string{}, 1); err == nil {
		t.Fatal("expected error for unknown source kind")
	}
}
