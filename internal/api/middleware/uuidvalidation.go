// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/api/response"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/validation"
)

// ValidateRunIDMiddleware validates that the runID URL parameter is present
// and is a valid UUID. Returns 400 Bad Request if the run ID is missing or
// invalid. Apply it to routes that carry a run ID in the URL path.
//
// Example usage in router:
//
//	r.Route("/{runID}", func(r chi.Router) {
//	    r.Use(middleware.ValidateRunIDMiddleware)
//	    r.Get("/", handler.Run)
//	    r.Delete("/", handler.DeleteRun)
//	})
func ValidateRunIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")

		if runID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid run ID is required", "")
			return
		}

		if err := validation.ValidateUUID(runID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid run ID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
