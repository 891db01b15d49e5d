package source

import (
	"encoding/json"
	"fmt"
)

// New creates a source based on kind and a generic configuration map.
// This is the central extension point for adding new source types.
//
// Supported kinds:
//   - "prometheus": Prometheus source
//   - "http": generic HTTP source
//   - "file": CSV replay source
//
// Returns an error if kind is unknown or required fields are missing.
func New(kind string, config map[string]string, stepSeconds int) (Source, error) {
	switch kind {
	case "prometheus":
		return newPrometheus(config, stepSeconds)
	case "http":
		return newHTTP(config)
	case "file":
		return newFile(config)
	default:
		return nil, fmt.Errorf("unknown source kind: %s (must be prometheus, http, or file)", kind)
	}
}

// newPrometheus creates a Prometheus source from generic config.
func newPrometheus(config map[string]string, stepSeconds int) (Source, error) {
	query := config["query"]
	if query == "" {
		return nil, fmt.Errorf("prometheus source requires 'query' config")
	}

	url := config["url"]
	if url == "" {
		url = "http://localhost:9090"
	}

	return &PrometheusSource{
		ServerURL:   url,
		Query:       query,
		StepSeconds: stepSeconds,
	}, nil
}

// newHTTP creates a generic HTTP source from generic config.
func newHTTP(config map[string]string) (Source, error) {
	url := config["url"]
	if url == "" {
		return nil, fmt.Errorf("http source requires 'url' config")
	}

	pressurePath := config["pressurePath"]
	timestampPath := config["timestampPath"]
	if pressurePath == "" || timestampPath == "" {
		return nil, fmt.Errorf("http source requires 'pressurePath' and 'timestampPath' config")
	}

	method := config["method"]
	if method == "" {
		method = "GET"
	}

	timestampFormat := config["timestampFormat"]
	if timestampFormat == "" {
		timestampFormat = "rfc3339"
	}

	var headers map[string]string
	if headersJSON := config["headers"]; headersJSON != "" {
		if err := json.Unmarshal([]byte(headersJSON), &headers); err != nil {
			return nil, fmt.Errorf("invalid 'headers' JSON: %w", err)
		}
	}

	var templateVars map[string]string
	if varsJSON := config["templateVars"]; varsJSON != "" {
		if err := json.Unmarshal([]byte(varsJSON), &templateVars); err != nil {
			return nil, fmt.Errorf("invalid 'templateVars' JSON: %w", err)
		}
	}

	return &HTTPSource{
		URL:             url,
		Method:          method,
		Headers:         headers,
		Body:            config["body"],
		PressurePath:    pressurePath,
		TimestampPath:   timestampPath,
		TimestampFormat: timestampFormat,
		TemplateVars:    templateVars,
	}, nil
}

// newFile creates a CSV replay source from generic config.
func newFile(config map[string]string) (Source, error) {
	path := config["path"]
	if path == "" {
		return nil, fmt.Errorf("file source requires 'path' config")
	}

	src := &FileSource{
		Path:            path,
		TimestampColumn: config["timestampColumn"],
		PressureColumn:  config["pressureColumn"],
		TimestampFormat: config["timestampFormat"],
	}
	if c := config["comma"]; c != "" {
		src.Comma = rune(c[0])
	}
	return src, nil
}
