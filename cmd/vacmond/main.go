// Command vacmond implements the vacmon chamber monitor.
//
// The monitor runs a continuous analysis loop that:
//  1. Collects pressure samples for the configured window from a source
//  2. Runs the full vacuum analysis suite over the window (base pressure,
//     noise metrics, leak fits, spike and pump-down cycle detection)
//  3. Stores the resulting report for clients to consume
//  4. Exposes reports via HTTP API at /report/current
//
// The monitor serves an HTTP API on port 8081 (configurable) providing:
//   - GET /report/current?chamber=<name> - Retrieve latest analysis report
//   - GET /healthz - Health check endpoint
//   - GET /metrics - Prometheus metrics endpoint
//
// Usage:
//
//	vacmond \
//	  -chamber=main-chamber \
//	  -source=prometheus \
//	  -interval=30s \
//	  -window=1h
//
// Environment variables:
//
//	CHAMBER        - Chamber name (required)
//	SOURCE         - Pressure source: prometheus, http, or file (required)
//	SOURCE_URL     - Source endpoint URL
//	SOURCE_QUERY   - PromQL query selecting the pressure gauge (prometheus)
//	SOURCE_PATH    - CSV file path (file)
//	INTERVAL       - Analysis loop interval (default: 30s)
//	WINDOW         - Historical window to analyze (default: 1h)
//	SAMPLE_RATE    - Nominal sample rate in Hz (default: 1)
//	STORAGE        - Storage backend: memory or redis (default: memory)
//	REDIS_ADDR     - Redis server address (default: localhost:6379)
//	LOG_LEVEL      - Logging level: debug, info, warn, error (default: info)
//	LOG_FORMAT     - Logging format: text, json (default: text)
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hipstereclipse/vacmon/cmd/vacmond/config"
	"github.com/hipstereclipse/vacmon/cmd/vacmond/logger"
	"github.com/hipstereclipse/vacmon/cmd/vacmond/metrics"
	"github.com/hipstereclipse/vacmon/cmd/vacmond/router"
	"github.com/hipstereclipse/vacmon/cmd/vacmond/store"
	"github.com/hipstereclipse/vacmon/pkg/httpx"
	"github.com/hipstereclipse/vacmon/pkg/tls"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	cfg := config.ParseFlags()

	logger := logger.New(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting vacmon monitor",
		"version", version,
		"chamber", cfg.Chamber,
		"source", cfg.Source,
	)

	src, err := newSource(cfg)
	if err != nil {
		logger.Error("failed to create source", "error", err)
		os.Exit(1)
	}

	store, err := store.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("failed to close store", "error", err)
			}
		}()
	}

	m := NewMonitor(
		cfg.Chamber,
		src,
		store,
		cfg.AnalysisParams(),
		cfg.Window,
		logger,
		metrics.New(cfg.Source, cfg.Chamber),
	)

	staleAfter := 2 * cfg.Interval // Report is stale if older than 2x the interval
	mux := router.SetupRoutes(store, staleAfter, logger)
	httpServer := httpx.NewServer(cfg.Listen, mux, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := m.Run(ctx, cfg.Interval); err != nil && err != context.Canceled {
			logger.Error("monitor loop failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- startServer(httpServer, cfg.TLS)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	}

	logger.Info("shutting down")
	cancel()

	if err := httpServer.Stop(10 * time.Second); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func startServer(server *httpx.Server, tlsCfg tls.Config) error {
	if !tlsCfg.Enabled {
		return server.Start()
	}

	serverTLS, err := tls.NewServerTLSConfig(tlsCfg.CertFile, tlsCfg.KeyFile, tlsCfg.CAFile)
	if err != nil {
		return err
	}
	server.SetTLSConfig(serverTLS)
	return server.StartTLS(tlsCfg.CertFile, tlsCfg.KeyFile)
}
