package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/response"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// decodeBody decodes a JSON request body into dst, responding 400 on
// failure. Returns false when the request has already been answered.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// parseOptionalDate parses an optional ISO date field. An empty value is
// returned as the zero time (the control has not been set yet); an
// unparseable value records a field error.
func parseOptionalDate(field, value string, fields map[string]string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := validation.ParseDate(value)
	if err != nil {
		fields[field] = "must be a date in YYYY-MM-DD form"
		return time.Time{}
	}
	return parsed
}

// checkDateRange records a field error when both dates are set and the end
// precedes the start.
func checkDateRange(start, end time.Time, fields map[string]string) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if err := validation.ValidateDateRange(start, end); err != nil {
		fields["end_date"] = "must not be before start_date"
	}
}

// respondValidationError sends the accumulated field errors as a 400.
// Returns false when there were none.
func respondValidationError(w http.ResponseWriter, fields map[string]string) bool {
	if len(fields) == 0 {
		return false
	}
	verr := &validation.Error{Fields: fields}
	response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Error())
	return true
}
