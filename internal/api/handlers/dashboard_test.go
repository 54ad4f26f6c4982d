package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/request"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/metrics"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/testutil"
)

func newDashboardHandler(t *testing.T, provider *testutil.MockProvider) *DashboardHandler {
	t.Helper()

	svc := service.NewDashboardService(provider, "mock", recorder.NewNoopRecorder(), metrics.New())
	return NewDashboardHandler(svc)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestDashboardHandler_Options(t *testing.T) {
	t.Run("idle request", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockProvider())

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/options", request.OptionsRequest{})
		rr := httptest.NewRecorder()
		handler.Options(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rr.Code)
		}

		var resp OptionsResponse
		decodeResponse(t, rr, &resp)
		if resp.Message != service.IdleMessage {
			t.Errorf("Unexpected message %q", resp.Message)
		}
		if resp.StockOptions == nil || len(resp.StockOptions) != 0 {
			t.Errorf("Expected empty stock options array, got %v", resp.StockOptions)
		}
	})

	t.Run("successful upload", func(t *testing.T) {
		start := testutil.Day(2024, 1, 1)
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102, 101))
		handler := newDashboardHandler(t, provider)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/options", request.OptionsRequest{
			Filename:  "stock_list.csv",
			Contents:  testutil.EncodeUpload(testutil.WatchlistCSV("AAA")),
			StartDate: "2024-01-01",
			EndDate:   "2024-01-10",
		})
		rr := httptest.NewRecorder()
		handler.Options(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}

		var resp OptionsResponse
		decodeResponse(t, rr, &resp)
		if resp.Message != "Uploaded stock_list.csv successfully." {
			t.Errorf("Unexpected message %q", resp.Message)
		}
		if len(resp.StockOptions) != 1 || resp.StockOptions[0].Value != "AAA" {
			t.Errorf("Unexpected stock options %v", resp.StockOptions)
		}
		if resp.DefaultCutoff != "2024-01-01" {
			t.Errorf("Unexpected default cutoff %q", resp.DefaultCutoff)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockProvider())

		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/options", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		handler.Options(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})

	t.Run("unparseable date", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockProvider())

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/options", request.OptionsRequest{
			StartDate: "01/15/2024",
			EndDate:   "2024-01-31",
		})
		rr := httptest.NewRecorder()
		handler.Options(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockProvider())

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/options", request.OptionsRequest{
			StartDate: "2024-02-01",
			EndDate:   "2024-01-01",
		})
		rr := httptest.NewRecorder()
		handler.Options(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rr.Code)
		}
	})
}

func TestDashboardHandler_Chart(t *testing.T) {
	t.Run("plots selected stocks", func(t *testing.T) {
		start := testutil.Day(2024, 1, 1)
		provider := testutil.NewMockProvider().
			WithSeries("AAA", testutil.Points(start, 100, 102, 101))
		handler := newDashboardHandler(t, provider)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/chart", request.ChartRequest{
			Filename:       "stock_list.csv",
			Contents:       testutil.EncodeUpload(testutil.WatchlistCSV("AAA")),
			StartDate:      "2024-01-01",
			EndDate:        "2024-01-10",
			CutoffDate:     "2024-01-01",
			SelectedStocks: []string{"AAA"},
		})
		rr := httptest.NewRecorder()
		handler.Chart(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}

		var resp ChartResponse
		decodeResponse(t, rr, &resp)
		if resp.Status != "Data loaded successfully." {
			t.Errorf("Unexpected status %q", resp.Status)
		}
		if resp.Figure.Title != "Cumulative Change for AAA (Cutoff: 2024-01-01)" {
			t.Errorf("Unexpected title %q", resp.Figure.Title)
		}
		if len(resp.Figure.Series) != 1 || len(resp.Figure.Series[0].Y) != 3 {
			t.Errorf("Unexpected series %v", resp.Figure.Series)
		}
	})

	t.Run("missing inputs yield a placeholder", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockProvider())

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/chart", request.ChartRequest{})
		rr := httptest.NewRecorder()
		handler.Chart(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}

		var resp ChartResponse
		decodeResponse(t, rr, &resp)
		if resp.Figure.Title != "Upload a CSV, select dates, cutoff, and stocks" {
			t.Errorf("Unexpected title %q", resp.Figure.Title)
		}
	})
}

func TestDashboardHandler_Cutoffs(t *testing.T) {
	start := testutil.Day(2024, 1, 1)
	provider := testutil.NewMockProvider().
		WithSeries("AAA", testutil.Points(start, 100, 102))
	handler := newDashboardHandler(t, provider)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/dashboard/cutoffs", request.CutoffsRequest{
		Filename:  "stock_list.csv",
		Contents:  testutil.EncodeUpload(testutil.WatchlistCSV("AAA")),
		StartDate: "2024-01-01",
		EndDate:   "2024-01-10",
	})
	rr := httptest.NewRecorder()
	handler.Cutoffs(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp CutoffsResponse
	decodeResponse(t, rr, &resp)
	if resp.Message != "Data loaded successfully." {
		t.Errorf("Unexpected message %q", resp.Message)
	}
	// 2 cutoffs: 2 rows plus 1 row.
	if len(resp.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Date != "2024-01-01" || resp.Rows[0].CutoffDate != "2024-01-01" {
		t.Errorf("Unexpected first row %+v", resp.Rows[0])
	}
	if resp.Rows[1].CumulativeChange != 0.02 {
		t.Errorf("Expected 0.02, got %v", resp.Rows[1].CumulativeChange)
	}
}
