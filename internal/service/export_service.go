package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/dashboard"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/export"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/watchlist"
)

// ExportService downloads histories for a watchlist and writes one file per
// symbol to a local directory. Exports run from the HTTP API, the snapshot
// CLI, and scheduled jobs.
type ExportService struct {
	downloader   *marketdata.Downloader
	providerName string
	recorder     recorder.Recorder
	metrics      *metrics.Registry
	defaultDir   string
}

// NewExportService creates an ExportService writing to defaultDir unless a
// request overrides it.
func NewExportService(provider marketdata.Provider, providerName string, rec recorder.Recorder, reg *metrics.Registry, defaultDir string) *ExportService {
	return &ExportService{
		downloader:   marketdata.NewDownloader(provider),
		providerName: providerName,
		recorder:     rec,
		metrics:      reg,
		defaultDir:   defaultDir,
	}
}

// ExportInput describes one export: an already-decoded watchlist CSV, a
// date range, the output format, and an optional output directory override.
type ExportInput struct {
	Filename  string
	Data      []byte
	StartDate time.Time
	EndDate   time.Time
	Format    export.Format
	OutputDir string

	// Kind tags the run record; defaults to "export".
	Kind string
}

// ExportResult lists the files written and the per-symbol fetch errors.
type ExportResult struct {
	Files   []string
	Errors  []string
	Message string
}

// Export runs ingest, fetch, and per-symbol file writes.
//
// Upload-level errors and an all-symbols-failed download are returned as
// errors; in the latter case the result still carries the accumulated fetch
// errors. Per-symbol fetch failures alone do not fail the export.
func (s *ExportService) Export(ctx context.Context, in ExportInput) (*ExportResult, error) {
	kind := in.Kind
	if kind == "" {
		kind = recorder.KindExport
	}
	dir := in.OutputDir
	if dir == "" {
		dir = s.defaultDir
	}

	wl, err := watchlist.Parse(in.Filename, in.Data)
	if err != nil {
		s.recordRun(kind, time.Now(), 0, nil, recorder.StatusFailed, uploadErrorMessage(err), nil)
		return nil, err
	}

	started := time.Now()
	history, fetchErrors, err := s.downloader.DownloadAll(ctx, wl.Symbols, in.StartDate, in.EndDate)
	s.metrics.FetchDuration.WithLabelValues(s.providerName).Observe(time.Since(started).Seconds())
	if len(fetchErrors) > 0 {
		s.metrics.FetchErrors.WithLabelValues(s.providerName).Add(float64(len(fetchErrors)))
	}
	if err != nil {
		message := "No data available." + dashboard.ErrorSuffix(fetchErrors)
		s.recordRun(kind, started, len(wl.Symbols), fetchErrors, recorder.StatusFailed, message, in.Data)
		return &ExportResult{Errors: marketdata.Messages(fetchErrors), Message: message}, err
	}

	files := make([]string, 0, len(history.Series))
	for _, series := range history.Series {
		path, err := export.WriteSeries(dir, series, in.Format)
		if err != nil {
			return nil, fmt.Errorf("exporting %s: %w", series.Symbol, err)
		}
		files = append(files, path)
		s.metrics.ExportedFiles.Inc()
	}

	result := &ExportResult{
		Files:   files,
		Errors:  marketdata.Messages(fetchErrors),
		Message: fmt.Sprintf("Exported %d file(s).", len(files)) + dashboard.ErrorSuffix(fetchErrors),
	}

	status := runStatus(len(history.Series), len(fetchErrors))
	s.recordRun(kind, started, len(wl.Symbols), fetchErrors, status, result.Message, in.Data)
	return result, nil
}

// ExportFromFile runs an export for a watchlist CSV on disk. Used by
// scheduled jobs and the snapshot CLI.
func (s *ExportService) ExportFromFile(ctx context.Context, path string, start, end time.Time, format export.Format, outputDir, kind string) (*ExportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist %s: %w", path, err)
	}
	return s.Export(ctx, ExportInput{
		Filename:  path,
		Data:      data,
		StartDate: start,
		EndDate:   end,
		Format:    format,
		OutputDir: outputDir,
		Kind:      kind,
	})
}

func (s *ExportService) recordRun(kind string, started time.Time, symbolCount int, fetchErrors []marketdata.FetchError, status, message string, payload []byte) {
	s.metrics.Runs.WithLabelValues(kind, status).Inc()

	run := &recorder.Run{
		ID:          uuid.NewString(),
		Kind:        kind,
		Provider:    s.providerName,
		StartedAt:   started,
		CompletedAt: time.Now(),
		SymbolCount: symbolCount,
		ErrorCount:  len(fetchErrors),
		Status:      status,
		Message:     message,
		FetchErrors: marketdata.Messages(fetchErrors),
		Payload:     payload,
	}
	if err := s.recorder.Record(run); err != nil {
		log.Printf("Failed to record %s run: %v", kind, err)
	}
}
