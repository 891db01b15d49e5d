// Package router configures HTTP routes for the monitor's HTTP API.
//
// The monitor exposes an HTTP server on port 8081 (configurable) that provides
// report retrieval, health checks, and Prometheus metrics. This package sets up
// the routes for that HTTP server.
//
// Routes configured:
//   - GET /report/current?chamber=<name> - Retrieve latest analysis report
//   - GET /healthz - Health check endpoint (returns 200 OK)
//   - GET /metrics - Prometheus metrics endpoint
//
// The /report/current endpoint returns analysis reports in JSON format,
// including pressure statistics, noise metrics, leak fits, and detected
// events. Reports older than the stale threshold include an X-Vacmon-Stale
// header.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hipstereclipse/vacmon/pkg/httpx"
	"github.com/hipstereclipse/vacmon/pkg/storage"
)

var chamberNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]{0,251}[a-zA-Z0-9])?$`)

// SetupRoutes configures HTTP endpoints for the monitor.
func SetupRoutes(store storage.Store, staleAfter time.Duration, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.Handle("/healthz", httpx.HealthHandler())

	// Latest report endpoint
	mux.HandleFunc("/report/current", handleGetReport(store, staleAfter, logger))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// handleGetReport returns a handler for GET /report/current?chamber=<name>.
func handleGetReport(store storage.Store, staleAfter time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chamber := r.URL.Query().Get("chamber")
		if chamber == "" {
			httpx.WriteErrorMessage(w, http.StatusBadRequest, "chamber parameter required")
			return
		}

		if !chamberNameRegex.MatchString(chamber) {
			httpx.WriteErrorMessage(w, http.StatusBadRequest, "invalid chamber name format")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		report, found, err := store.GetLatest(ctx, chamber)
		if err != nil {
			logger.Error("failed to get report", "chamber", chamber, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if !found {
			httpx.WriteErrorMessage(w, http.StatusNotFound, fmt.Sprintf("report not found for chamber %q", chamber))
			return
		}

		if time.Since(report.GeneratedAt) > staleAfter {
			w.Header().Set("X-Vacmon-Stale", "true")
		}

		if err := httpx.WriteJSON(w, http.StatusOK, report); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}
