package handlers

import (
	"net/http"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/request"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/dashboard"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
)

// DashboardHandler handles the dashboard pipeline endpoints: options,
// chart, and the all-cutoffs variant.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// OptionsResponse represents the options endpoint response: the dropdown
// state for the UI after an upload.
type OptionsResponse struct {
	StockOptions  []dashboard.Option `json:"stock_options"`
	DefaultStocks []string           `json:"default_stocks"`
	CutoffOptions []dashboard.Option `json:"cutoff_options"`
	DefaultCutoff string             `json:"default_cutoff"`
	Message       string             `json:"message"`
}

// Options computes selectable stocks and cutoff dates for an upload.
//
// Endpoint: POST /api/dashboard/options
// Missing upload or dates yield 200 with empty lists and an explanatory
// message; only malformed requests produce a 400.
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	var req request.OptionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := make(map[string]string)
	start := parseOptionalDate("start_date", req.StartDate, fields)
	end := parseOptionalDate("end_date", req.EndDate, fields)
	checkDateRange(start, end, fields)
	if respondValidationError(w, fields) {
		return
	}

	result := h.dashboardService.Options(r.Context(), service.OptionsInput{
		Upload:    service.UploadInput{Filename: req.Filename, Contents: req.Contents},
		StartDate: start,
		EndDate:   end,
	})

	respondJSON(w, http.StatusOK, OptionsResponse{
		StockOptions:  emptyIfNilOptions(result.StockOptions),
		DefaultStocks: emptyIfNil(result.DefaultStocks),
		CutoffOptions: emptyIfNilOptions(result.CutoffOptions),
		DefaultCutoff: result.DefaultCutoff,
		Message:       result.Message,
	})
}

// ChartResponse represents the chart endpoint response.
type ChartResponse struct {
	Figure dashboard.Figure `json:"figure"`
	Status string           `json:"status"`
}

// Chart plots cumulative change since the cutoff for the selected stocks.
//
// Endpoint: POST /api/dashboard/chart
// Failure paths return 200 with a placeholder figure whose title explains
// the problem, mirroring how the dashboard UI displays them.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	var req request.ChartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := make(map[string]string)
	start := parseOptionalDate("start_date", req.StartDate, fields)
	end := parseOptionalDate("end_date", req.EndDate, fields)
	cutoff := parseOptionalDate("cutoff_date", req.CutoffDate, fields)
	checkDateRange(start, end, fields)
	if respondValidationError(w, fields) {
		return
	}

	result := h.dashboardService.Chart(r.Context(), service.ChartInput{
		Upload:         service.UploadInput{Filename: req.Filename, Contents: req.Contents},
		StartDate:      start,
		EndDate:        end,
		CutoffDate:     cutoff,
		SelectedStocks: req.SelectedStocks,
	})

	respondJSON(w, http.StatusOK, ChartResponse{
		Figure: result.Figure,
		Status: result.Status,
	})
}

// CutoffPoint is one row of the all-cutoffs response.
type CutoffPoint struct {
	Date             string  `json:"date"`
	Name             string  `json:"name"`
	CutoffDate       string  `json:"cutoff_date"`
	CumulativeChange float64 `json:"cumulative_change"`
}

// CutoffsResponse represents the all-cutoffs endpoint response.
type CutoffsResponse struct {
	Rows    []CutoffPoint `json:"rows"`
	Message string        `json:"message"`
}

// Cutoffs materializes cumulative change for every possible cutoff date.
//
// Endpoint: POST /api/dashboard/cutoffs
// The row count is observations times distinct dates; clients use this to
// switch cutoffs instantly without refetching.
func (h *DashboardHandler) Cutoffs(w http.ResponseWriter, r *http.Request) {
	var req request.CutoffsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := make(map[string]string)
	start := parseOptionalDate("start_date", req.StartDate, fields)
	end := parseOptionalDate("end_date", req.EndDate, fields)
	checkDateRange(start, end, fields)
	if respondValidationError(w, fields) {
		return
	}

	result := h.dashboardService.Cutoffs(r.Context(), service.CutoffsInput{
		Upload:    service.UploadInput{Filename: req.Filename, Contents: req.Contents},
		StartDate: start,
		EndDate:   end,
	})

	rows := make([]CutoffPoint, len(result.Rows))
	for i, row := range result.Rows {
		rows[i] = CutoffPoint{
			Date:             row.Date.Format(dashboard.DateFormat),
			Name:             row.Name,
			CutoffDate:       row.CutoffDate.Format(dashboard.DateFormat),
			CumulativeChange: row.CumulativeChange,
		}
	}

	respondJSON(w, http.StatusOK, CutoffsResponse{
		Rows:    rows,
		Message: result.Message,
	})
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilOptions(options []dashboard.Option) []dashboard.Option {
	if options == nil {
		return []dashboard.Option{}
	}
	return options
}
