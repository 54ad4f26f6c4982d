package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/config"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/database"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/jobs"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the run-history database. A missing path or a failed open
	// degrades to a no-op recorder; the dashboard keeps serving.
	var (
		db  *sql.DB
		rec recorder.Recorder = recorder.NewNoopRecorder()
	)
	if cfg.Database.Path != "" {
		db, err = database.Open(cfg.Database.Path)
		if err != nil {
			log.Printf("Warning: run recording disabled, failed to open database: %v", err)
			db = nil
		} else if err := database.Migrate(db); err != nil {
			log.Printf("Warning: run recording disabled, failed to migrate database: %v", err)
			db.Close()
			db = nil
		}
	}
	if db != nil {
		defer db.Close()
		sqliteRec, err := recorder.NewSQLiteRecorder(db, cfg.Security.FernetKey)
		if err != nil {
			log.Fatalf("Failed to create run recorder: %v", err)
		}
		rec = sqliteRec
		log.Printf("Recording runs to: %s", cfg.Database.Path)
	}

	// Select the market data provider
	provider, err := marketdata.NewProvider(
		cfg.Market.Provider,
		cfg.Market.AlpacaKey,
		cfg.Market.AlpacaSecret,
		cfg.Market.AlpacaBaseURL,
		cfg.Market.AlpacaFeed,
	)
	if err != nil {
		log.Fatalf("Failed to configure market data provider: %v", err)
	}
	log.Printf("Using market data provider: %s", cfg.Market.Provider)

	metricsRegistry := metrics.New()

	// Create services
	systemService := service.NewSystemService(db)
	dashboardService := service.NewDashboardService(provider, cfg.Market.Provider, rec, metricsRegistry)
	exportService := service.NewExportService(provider, cfg.Market.Provider, rec, metricsRegistry, cfg.Export.Dir)
	runService := service.NewRunService(rec)

	// Mount scheduled export jobs when a jobs file is configured
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Path != "" {
		jobsFile, err := jobs.Load(cfg.Jobs.Path)
		if err != nil {
			log.Fatalf("Failed to load jobs file: %v", err)
		}
		scheduler, err = jobs.NewScheduler(jobsFile, exportService, cfg.Market.DefaultRangeDays)
		if err != nil {
			log.Fatalf("Failed to schedule jobs: %v", err)
		}
		scheduler.Start()
		log.Printf("Scheduled %d export job(s) from %s", len(jobsFile.Jobs), cfg.Jobs.Path)
	}

	// Create router
	router := api.NewRouter(systemService, dashboardService, exportService, runService, metricsRegistry, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		if scheduler != nil {
			scheduler.Stop()
		}

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server exited")
}
