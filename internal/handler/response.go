// Package handler contains the HTTP request handlers: the glue between HTTP
// and the executor/service layers. Handlers parse requests, delegate, and
// serialize responses — no business logic lives here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/online-compiler/internal/apperror"
)

// ErrorResponse is the uniform error body returned by every API endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends data with the given status. Headers must be set before the
// first body write, hence the fixed order here.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status. Anything that isn't an
// AppError collapses into a generic 500 — internal details (paths, SQL)
// never reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{Error: errorType, Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
