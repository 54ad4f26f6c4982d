package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/testutil"
)

func newDashboardService(t *testing.T, provider *testutil.MockProvider) (*service.DashboardService, *recorder.SQLiteRecorder) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	rec, err := recorder.NewSQLiteRecorder(db, "")
	if err != nil {
		t.Fatalf("Failed to create recorder: %v", err)
	}
	return service.NewDashboardService(provider, "mock", rec, metrics.New()), rec
}

func validUpload(symbols ...string) service.UploadInput {
	return service.UploadInput{
		Filename: "stock_list.csv",
		Contents: testutil.EncodeUpload(testutil.WatchlistCSV(symbols...)),
	}
}

func dateRange() (time.Time, time.Time) {
	return testutil.Day(2024, 1, 1), testutil.Day(2024, 1, 10)
}

func TestDashboardService_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("idle until upload and dates are present", func(t *testing.T) {
		svc, _ := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Options(ctx, service.OptionsInput{})

		if result.Message != service.IdleMessage {
			t.Errorf("Expected idle message, got %q", result.Message)
		}
		if len(result.StockOptions) != 0 || len(result.CutoffOptions) != 0 {
			t.Error("Expected empty option lists")
		}
	})

	t.Run("successful upload", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102, 101)).
			WithSeries("BBB", testutil.Points(start, 50, 51, 52))
		svc, rec := newDashboardService(t, provider)

		result := svc.Options(ctx, service.OptionsInput{
			Upload:    validUpload("AAA", "BBB"),
			StartDate: start,
			EndDate:   end,
		})

		if result.Message != "Uploaded stock_list.csv successfully." {
			t.Errorf("Unexpected message %q", result.Message)
		}
		if len(result.StockOptions) != 2 {
			t.Fatalf("Expected 2 stock options, got %d", len(result.StockOptions))
		}
		if len(result.DefaultStocks) != 1 || result.DefaultStocks[0] != "AAA" {
			t.Errorf("Expected default stock AAA, got %v", result.DefaultStocks)
		}
		if result.DefaultCutoff != "2024-01-01" {
			t.Errorf("Expected earliest cutoff as default, got %q", result.DefaultCutoff)
		}
		if len(result.CutoffOptions) != 3 {
			t.Errorf("Expected 3 cutoff options, got %d", len(result.CutoffOptions))
		}

		runs, err := rec.List()
		if err != nil {
			t.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("Expected 1 recorded run, got %d", len(runs))
		}
		if runs[0].Kind != recorder.KindOptions || runs[0].Status != recorder.StatusOK {
			t.Errorf("Unexpected run %+v", runs[0])
		}
		if runs[0].SymbolCount != 2 {
			t.Errorf("Expected symbol count 2, got %d", runs[0].SymbolCount)
		}
	})

	t.Run("invalid upload", func(t *testing.T) {
		start, end := dateRange()
		svc, rec := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Options(ctx, service.OptionsInput{
			Upload:    service.UploadInput{Filename: "stocks.txt", Contents: testutil.EncodeUpload([]byte("Stock\nAAA\n"))},
			StartDate: start,
			EndDate:   end,
		})

		if result.Message != "Please upload a valid CSV file." {
			t.Errorf("Unexpected message %q", result.Message)
		}
		runs, _ := rec.List()
		if len(runs) != 1 || runs[0].Status != recorder.StatusFailed {
			t.Errorf("Expected a failed run, got %v", runs)
		}
	})

	t.Run("missing Stock column", func(t *testing.T) {
		start, end := dateRange()
		svc, _ := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Options(ctx, service.OptionsInput{
			Upload: service.UploadInput{
				Filename: "stocks.csv",
				Contents: testutil.EncodeUpload([]byte("Ticker\nAAA\n")),
			},
			StartDate: start,
			EndDate:   end,
		})

		if result.Message != "CSV must contain a 'Stock' column." {
			t.Errorf("Unexpected message %q", result.Message)
		}
	})

	t.Run("partial failure keeps working symbols", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102)).
			WithEmptyResponse("ZZZZ")
		svc, rec := newDashboardService(t, provider)

		result := svc.Options(ctx, service.OptionsInput{
			Upload:    validUpload("AAA", "ZZZZ"),
			StartDate: start,
			EndDate:   end,
		})

		want := "Uploaded stock_list.csv successfully. Errors: ZZZZ: No data available"
		if result.Message != want {
			t.Errorf("Expected %q, got %q", want, result.Message)
		}
		if len(result.StockOptions) != 1 || result.StockOptions[0].Value != "AAA" {
			t.Errorf("Expected only AAA selectable, got %v", result.StockOptions)
		}

		runs, _ := rec.List()
		if len(runs) != 1 || runs[0].Status != recorder.StatusPartial {
			t.Errorf("Expected a partial run, got %v", runs)
		}
	})

	t.Run("every symbol failing", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithEmptyResponse("AAA").
			WithError("BBB", errors.New("connection refused"))
		svc, rec := newDashboardService(t, provider)

		result := svc.Options(ctx, service.OptionsInput{
			Upload:    validUpload("AAA", "BBB"),
			StartDate: start,
			EndDate:   end,
		})

		if len(result.StockOptions) != 0 {
			t.Errorf("Expected no stock options, got %v", result.StockOptions)
		}
		if !strings.Contains(result.Message, "AAA: No data available") ||
			!strings.Contains(result.Message, "BBB: Error - connection refused") {
			t.Errorf("Expected both errors in message, got %q", result.Message)
		}

		runs, _ := rec.List()
		if len(runs) != 1 || runs[0].Status != recorder.StatusFailed {
			t.Errorf("Expected a failed run, got %v", runs)
		}
		if runs[0].ErrorCount != 2 {
			t.Errorf("Expected 2 recorded errors, got %d", runs[0].ErrorCount)
		}
	})
}

func TestDashboardService_Chart(t *testing.T) {
	ctx := context.Background()

	t.Run("placeholder until every input is present", func(t *testing.T) {
		svc, _ := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Chart(ctx, service.ChartInput{})

		if result.Figure.Title != "Upload a CSV, select dates, cutoff, and stocks" {
			t.Errorf("Unexpected title %q", result.Figure.Title)
		}
		if len(result.Figure.Series) != 0 {
			t.Error("Expected placeholder without series")
		}
	})

	t.Run("plots the selected stocks", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102, 101)).
			WithSeries("BBB", testutil.Points(start, 50, 51, 52))
		svc, rec := newDashboardService(t, provider)

		result := svc.Chart(ctx, service.ChartInput{
			Upload:         validUpload("AAA", "BBB"),
			StartDate:      start,
			EndDate:        end,
			CutoffDate:     start,
			SelectedStocks: []string{"AAA"},
		})

		if result.Status != "Data loaded successfully." {
			t.Errorf("Unexpected status %q", result.Status)
		}
		if result.Figure.Title != "Cumulative Change for AAA (Cutoff: 2024-01-01)" {
			t.Errorf("Unexpected title %q", result.Figure.Title)
		}
		if len(result.Figure.Series) != 1 {
			t.Fatalf("Expected 1 series, got %d", len(result.Figure.Series))
		}
		if result.Figure.Series[0].Y[1] != 0.02 {
			t.Errorf("Expected 0.02, got %v", result.Figure.Series[0].Y[1])
		}
		// Only the selected symbol is fetched.
		if provider.QueryCount != 1 {
			t.Errorf("Expected 1 fetch, got %d", provider.QueryCount)
		}

		runs, _ := rec.List()
		if len(runs) != 1 || runs[0].Kind != recorder.KindChart {
			t.Errorf("Expected a chart run, got %v", runs)
		}
	})

	t.Run("selection outside the upload", func(t *testing.T) {
		start, end := dateRange()
		svc, _ := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Chart(ctx, service.ChartInput{
			Upload:         validUpload("AAA"),
			StartDate:      start,
			EndDate:        end,
			CutoffDate:     start,
			SelectedStocks: []string{"EVIL"},
		})

		if result.Figure.Title != "No valid stocks selected" {
			t.Errorf("Unexpected title %q", result.Figure.Title)
		}
	})

	t.Run("all selected symbols failing", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().WithEmptyResponse("AAA")
		svc, _ := newDashboardService(t, provider)

		result := svc.Chart(ctx, service.ChartInput{
			Upload:         validUpload("AAA"),
			StartDate:      start,
			EndDate:        end,
			CutoffDate:     start,
			SelectedStocks: []string{"AAA"},
		})

		want := "No data available. Errors: AAA: No data available"
		if result.Figure.Title != want {
			t.Errorf("Expected %q, got %q", want, result.Figure.Title)
		}
	})

	t.Run("partial failure appends the errors to the status", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102)).
			WithError("BBB", errors.New("timeout"))
		svc, _ := newDashboardService(t, provider)

		result := svc.Chart(ctx, service.ChartInput{
			Upload:         validUpload("AAA", "BBB"),
			StartDate:      start,
			EndDate:        end,
			CutoffDate:     start,
			SelectedStocks: []string{"AAA", "BBB"},
		})

		want := "Data loaded successfully. Errors: BBB: Error - timeout"
		if result.Status != want {
			t.Errorf("Expected %q, got %q", want, result.Status)
		}
	})
}

func TestDashboardService_Cutoffs(t *testing.T) {
	ctx := context.Background()

	t.Run("idle until inputs are present", func(t *testing.T) {
		svc, _ := newDashboardService(t, testutil.NewMockProvider())

		result := svc.Cutoffs(ctx, service.CutoffsInput{})
		if result.Message != service.IdleMessage {
			t.Errorf("Expected idle message, got %q", result.Message)
		}
	})

	t.Run("materializes every cutoff", func(t *testing.T) {
		start, end := dateRange()
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102, 101))
		svc, rec := newDashboardService(t, provider)

		result := svc.Cutoffs(ctx, service.CutoffsInput{
			Upload:    validUpload("AAA"),
			StartDate: start,
			EndDate:   end,
		})

		if result.Message != "Data loaded successfully." {
			t.Errorf("Unexpected message %q", result.Message)
		}
		// 3 cutoffs with 3, 2, and 1 rows.
		if len(result.Rows) != 6 {
			t.Errorf("Expected 6 rows, got %d", len(result.Rows))
		}

		runs, _ := rec.List()
		if len(runs) != 1 || runs[0].Kind != recorder.KindCutoffs {
			t.Errorf("Expected a cutoffs run, got %v", runs)
		}
	})
}
