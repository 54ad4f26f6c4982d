// Package metrics exposes Prometheus counters and histograms for pipeline
// runs, provider fetches, and exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the dashboard backend.
type Registry struct {
	registry *prometheus.Registry

	// Runs counts completed pipeline runs by kind and status.
	Runs *prometheus.CounterVec

	// FetchErrors counts per-symbol fetch failures by provider.
	FetchErrors *prometheus.CounterVec

	// FetchDuration observes the wall-clock time of whole watchlist
	// downloads by provider.
	FetchDuration *prometheus.HistogramVec

	// ExportedFiles counts files written by the export endpoints and jobs.
	ExportedFiles prometheus.Counter
}

// New creates a registry with all dashboard metrics registered.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_runs_total",
				Help: "Completed pipeline runs by kind and status",
			},
			[]string{"kind", "status"},
		),
		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_fetch_errors_total",
				Help: "Per-symbol fetch failures by provider",
			},
			[]string{"provider"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_fetch_duration_seconds",
				Help:    "Duration of whole watchlist downloads in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		ExportedFiles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_exported_files_total",
				Help: "Export files written",
			},
		),
	}

	r.registry.MustRegister(r.Runs, r.FetchErrors, r.FetchDuration, r.ExportedFiles)
	return r
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
