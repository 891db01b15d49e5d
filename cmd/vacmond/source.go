package main

import (
	"fmt"
	"time"

	"github.com/hipstereclipse/vacmon/cmd/vacmond/config"
	"github.com/hipstereclipse/vacmon/pkg/httpx"
	"github.com/hipstereclipse/vacmon/pkg/source"
)

// newSource builds the configured pressure source. When TLS is enabled the
// HTTP-backed sources share an mTLS client so gauge endpoints behind client
// certificate auth work out of the box.
func newSource(cfg *config.Config) (source.Source, error) {
	src, err := source.New(cfg.Source, cfg.SourceConfig, int(cfg.Step.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	if cfg.TLS.Enabled {
		client, err := httpx.NewClient(cfg.TLS, 10*time.Second)
		if err != nil {
			return nil, fmt.Errorf("create TLS client: %w", err)
		}

		switch s := src.(type) {
		case *source.PrometheusSource:
			s.HTTPClient = client
		case *source.HTTPSource:
			s.HTTPClient = client
		}
	}

	return src, nil
}
