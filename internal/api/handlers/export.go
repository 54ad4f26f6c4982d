package handlers

import (
	"errors"
	"net/http"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/request"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/response"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/export"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/watchlist"
)

// ExportHandler handles file-export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportResponse represents the export endpoint response.
type ExportResponse struct {
	Files   []string `json:"files"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// Export writes one historical-data file per fetched symbol.
//
// Endpoint: POST /api/export
// Responses: 200 on success (per-symbol fetch errors listed, not fatal),
// 400 for bad upload/format/dates, 422 when every symbol failed, 500 when a
// file could not be written.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req request.ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := make(map[string]string)
	start := parseOptionalDate("start_date", req.StartDate, fields)
	end := parseOptionalDate("end_date", req.EndDate, fields)
	checkDateRange(start, end, fields)
	if start.IsZero() {
		fields["start_date"] = "is required"
	}
	if end.IsZero() {
		fields["end_date"] = "is required"
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		fields["format"] = "must be csv or parquet"
	}
	if respondValidationError(w, fields) {
		return
	}

	data, err := watchlist.DecodeUpload(req.Contents)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "Please upload a valid CSV file.", err.Error())
		return
	}

	result, err := h.exportService.Export(r.Context(), service.ExportInput{
		Filename:  req.Filename,
		Data:      data,
		StartDate: start,
		EndDate:   end,
		Format:    format,
		OutputDir: req.OutputDir,
	})

	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, ExportResponse{
			Files:   emptyIfNil(result.Files),
			Errors:  emptyIfNil(result.Errors),
			Message: result.Message,
		})
	case errors.Is(err, apperrors.ErrNoValidData):
		respondJSON(w, http.StatusUnprocessableEntity, ExportResponse{
			Files:   []string{},
			Errors:  emptyIfNil(result.Errors),
			Message: result.Message,
		})
	case errors.Is(err, apperrors.ErrInvalidUploadFile) || errors.Is(err, apperrors.ErrMissingStockColumn):
		response.RespondError(w, http.StatusBadRequest, "invalid watchlist upload", err.Error())
	default:
		var parseErr *watchlist.ParseError
		if errors.As(err, &parseErr) {
			response.RespondError(w, http.StatusBadRequest, "invalid watchlist upload", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "export failed", err.Error())
	}
}
