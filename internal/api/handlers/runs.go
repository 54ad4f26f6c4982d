package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/response"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/apperrors"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/recorder"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/service"
)

// RunHandler handles run-history HTTP requests
type RunHandler struct {
	runService *service.RunService
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

// RunResponse represents one recorded run. The uploaded payload itself is
// never returned; HasPayload reports whether one was stored.
type RunResponse struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Provider    string   `json:"provider"`
	StartedAt   string   `json:"started_at"`
	CompletedAt string   `json:"completed_at"`
	SymbolCount int      `json:"symbol_count"`
	ErrorCount  int      `json:"error_count"`
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	FetchErrors []string `json:"fetch_errors"`
	HasPayload  bool     `json:"has_payload"`
}

func toRunResponse(run *recorder.Run) RunResponse {
	return RunResponse{
		ID:          run.ID,
		Kind:        run.Kind,
		Provider:    run.Provider,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		CompletedAt: run.CompletedAt.UTC().Format(time.RFC3339),
		SymbolCount: run.SymbolCount,
		ErrorCount:  run.ErrorCount,
		Status:      run.Status,
		Message:     run.Message,
		FetchErrors: emptyIfNil(run.FetchErrors),
		HasPayload:  len(run.Payload) > 0,
	}
}

// Runs lists all recorded runs, most recent first.
//
// Endpoint: GET /api/runs
func (h *RunHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.runService.GetAllRuns()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve runs", err.Error())
		return
	}

	result := make([]RunResponse, len(runs))
	for i := range runs {
		result[i] = toRunResponse(&runs[i])
	}
	respondJSON(w, http.StatusOK, result)
}

// Run returns one recorded run by ID.
//
// Endpoint: GET /api/runs/{runID}
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	run, err := h.runService.GetRun(runID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRunNotFound) {
			response.RespondError(w, http.StatusNotFound, "run not found", runID)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve run", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toRunResponse(run))
}

// DeleteRun removes one recorded run by ID.
//
// Endpoint: DELETE /api/runs/{runID}
func (h *RunHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if err := h.runService.DeleteRun(runID); err != nil {
		if errors.Is(err, apperrors.ErrRunNotFound) {
			response.RespondError(w, http.StatusNotFound, "run not found", runID)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "Failed to delete run", err.Error())
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
