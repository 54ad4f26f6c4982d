package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/middleware"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/config"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	dashboardService *service.DashboardService,
	exportService *service.ExportService,
	runService *service.RunService,
	metricsRegistry *metrics.Registry,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(dashboardService)
			r.Post("/options", dashboardHandler.Options)
			r.Post("/chart", dashboardHandler.Chart)
			r.Post("/cutoffs", dashboardHandler.Cutoffs)
		})

		exportHandler := handlers.NewExportHandler(exportService)
		r.Post("/export", exportHandler.Export)

		r.Route("/runs", func(r chi.Router) {
			runHandler := handlers.NewRunHandler(runService)
			r.Get("/", runHandler.Runs)

			r.Route("/{runID}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateRunIDMiddleware)
				r.Get("/", runHandler.Run)
				r.Delete("/", runHandler.DeleteRun)
			})
		})
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", metricsRegistry.Handler())

	return r
}
