package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/dashboard"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/transform"
)

// DashboardService runs the whole pipeline for one request: parse the
// uploaded watchlist, download histories, compute cumulative change, and
// shape the result for the UI. Nothing is kept between invocations; every
// call recomputes from its inputs.
type DashboardService struct {
	downloader   *marketdata.Downloader
	providerName string
	recorder     recorder.Recorder
	metrics      *metrics.Registry
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(provider marketdata.Provider, providerName string, rec recorder.Recorder, reg *metrics.Registry) *DashboardService {
	return &DashboardService{
		downloader:   marketdata.NewDownloader(provider),
		providerName: providerName,
		recorder:     rec,
		metrics:      reg,
	}
}

// OptionsInput carries the control values for an options request. Zero
// StartDate or EndDate means the caller has not picked a range yet.
type OptionsInput struct {
	Upload    UploadInput
	StartDate time.Time
	EndDate   time.Time
}

// OptionsResult is the dropdown state for the UI after an upload.
type OptionsResult struct {
	StockOptions  []dashboard.Option
	DefaultStocks []string
	CutoffOptions []dashboard.Option
	DefaultCutoff string
	Message       string
}

// Options computes the selectable stocks and cutoff dates for an upload.
//
// Upload-level failures and all-symbols-failed downloads yield empty option
// lists with an explanatory message rather than an error; only the provider
// call itself runs outside this function's control.
func (s *DashboardService) Options(ctx context.Context, in OptionsInput) *OptionsResult {
	if in.Upload.Contents == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return &OptionsResult{Message: IdleMessage}
	}

	wl, payload, err := parseUpload(in.Upload)
	if err != nil {
		message := uploadErrorMessage(err)
		s.recordRun(recorder.KindOptions, time.Now(), 0, nil, recorder.StatusFailed, message, nil)
		return &OptionsResult{Message: message}
	}

	started := time.Now()
	history, fetchErrors, err := s.download(ctx, wl.Symbols, in.StartDate, in.EndDate)
	if err != nil {
		message := dashboard.Status(wl.UploadMessage(), fetchErrors)
		s.recordRun(recorder.KindOptions, started, len(wl.Symbols), fetchErrors, recorder.StatusFailed, message, payload)
		return &OptionsResult{Message: message}
	}

	stockOptions := dashboard.StockOptions(wl.Symbols, history)
	cutoffOptions := dashboard.CutoffOptions(history)

	result := &OptionsResult{
		StockOptions:  stockOptions,
		CutoffOptions: cutoffOptions,
		Message:       dashboard.Status(wl.UploadMessage(), fetchErrors),
	}
	if len(stockOptions) > 0 {
		result.DefaultStocks = []string{stockOptions[0].Value}
	}
	if len(cutoffOptions) > 0 {
		result.DefaultCutoff = cutoffOptions[0].Value
	}

	status := runStatus(len(history.Series), len(fetchErrors))
	s.recordRun(recorder.KindOptions, started, len(wl.Symbols), fetchErrors, status, result.Message, payload)
	return result
}

// ChartInput carries the control values for a chart request.
type ChartInput struct {
	Upload         UploadInput
	StartDate      time.Time
	EndDate        time.Time
	CutoffDate     time.Time
	SelectedStocks []string
}

// ChartResult is a chart-ready figure plus a processing status line.
type ChartResult struct {
	Figure dashboard.Figure
	Status string
}

// Chart downloads the selected symbols and plots their cumulative change
// since the cutoff date. Every failure path yields a placeholder figure
// whose title explains the problem, never an error.
func (s *DashboardService) Chart(ctx context.Context, in ChartInput) *ChartResult {
	if in.Upload.Contents == "" || in.StartDate.IsZero() || in.EndDate.IsZero() ||
		in.CutoffDate.IsZero() || len(in.SelectedStocks) == 0 {
		return &ChartResult{Figure: dashboard.Placeholder("Upload a CSV, select dates, cutoff, and stocks")}
	}

	wl, payload, err := parseUpload(in.Upload)
	if err != nil {
		return &ChartResult{Figure: dashboard.Placeholder(uploadErrorMessage(err))}
	}

	validNames := intersect(in.SelectedStocks, wl.Symbols)
	if len(validNames) == 0 {
		return &ChartResult{Figure: dashboard.Placeholder("No valid stocks selected")}
	}

	started := time.Now()
	history, fetchErrors, err := s.download(ctx, validNames, in.StartDate, in.EndDate)
	if err != nil {
		title := "No data available." + dashboard.ErrorSuffix(fetchErrors)
		s.recordRun(recorder.KindChart, started, len(validNames), fetchErrors, recorder.StatusFailed, title, payload)
		return &ChartResult{Figure: dashboard.Placeholder(title)}
	}

	cutoff := truncateToDay(in.CutoffDate)
	rows := transform.CumulativeChange(history, cutoff)

	result := &ChartResult{
		Figure: dashboard.BuildFigure(rows, cutoff),
		Status: "Data loaded successfully." + dashboard.ErrorSuffix(fetchErrors),
	}

	status := runStatus(len(history.Series), len(fetchErrors))
	s.recordRun(recorder.KindChart, started, len(validNames), fetchErrors, status, result.Status, payload)
	return result
}

// CutoffsInput carries the control values for an all-cutoffs request.
type CutoffsInput struct {
	Upload    UploadInput
	StartDate time.Time
	EndDate   time.Time
}

// CutoffsResult is the materialized cumulative series for every
// (symbol, cutoff date) combination.
type CutoffsResult struct {
	Rows    []transform.CutoffRow
	Message string
}

// Cutoffs materializes the cumulative-change series for every distinct date
// treated as the cutoff, letting a client switch cutoff without refetching.
// Bounded-input only: the row count is observations times distinct dates.
func (s *DashboardService) Cutoffs(ctx context.Context, in CutoffsInput) *CutoffsResult {
	if in.Upload.Contents == "" || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return &CutoffsResult{Message: IdleMessage}
	}

	wl, payload, err := parseUpload(in.Upload)
	if err != nil {
		message := uploadErrorMessage(err)
		s.recordRun(recorder.KindCutoffs, time.Now(), 0, nil, recorder.StatusFailed, message, nil)
		return &CutoffsResult{Message: message}
	}

	started := time.Now()
	history, fetchErrors, err := s.download(ctx, wl.Symbols, in.StartDate, in.EndDate)
	if err != nil {
		message := "No data available." + dashboard.ErrorSuffix(fetchErrors)
		s.recordRun(recorder.KindCutoffs, started, len(wl.Symbols), fetchErrors, recorder.StatusFailed, message, payload)
		return &CutoffsResult{Message: message}
	}

	result := &CutoffsResult{
		Rows:    transform.AllCutoffs(history),
		Message: "Data loaded successfully." + dashboard.ErrorSuffix(fetchErrors),
	}

	status := runStatus(len(history.Series), len(fetchErrors))
	s.recordRun(recorder.KindCutoffs, started, len(wl.Symbols), fetchErrors, status, result.Message, payload)
	return result
}

// download wraps DownloadAll with fetch metrics.
func (s *DashboardService) download(ctx context.Context, symbols []string, start, end time.Time) (*marketdata.History, []marketdata.FetchError, error) {
	started := time.Now()
	history, fetchErrors, err := s.downloader.DownloadAll(ctx, symbols, start, end)
	s.metrics.FetchDuration.WithLabelValues(s.providerName).Observe(time.Since(started).Seconds())
	if len(fetchErrors) > 0 {
		s.metrics.FetchErrors.WithLabelValues(s.providerName).Add(float64(len(fetchErrors)))
	}
	if err != nil && !errors.Is(err, apperrors.ErrNoValidData) {
		return nil, fetchErrors, err
	}
	return history, fetchErrors, err
}

// recordRun writes one run record and bumps the run counter. Recording
// failures are logged, never surfaced: run history is an observability
// concern, not part of the pipeline contract.
func (s *DashboardService) recordRun(kind string, started time.Time, symbolCount int, fetchErrors []marketdata.FetchError, status, message string, payload []byte) {
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
