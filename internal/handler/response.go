package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors, so
// every handler produces the same shapes:
//
//	writeJSON(w, http.StatusOK, data)
//	writeError(w, err)
//
// Error responses share one format:
//
//	{"error": "validation_error", "message": "enabled must be a boolean"}
//
// with one deliberate exception — unauthenticated API requests always get
// exactly {"error": "Not logged in"}, the body programmatic clients match on.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/plsleave/internal/apperror"
)

// ErrorResponse is the standard error format returned by the API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`             // Machine-readable error type
	Message string `json:"message,omitempty"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode writes,
// the headers are on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent — we can only log it
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status and sends it.
//
// The service layer returns apperror sentinels; this is the single place
// they get translated to HTTP. Unknown errors become a generic 500 — the raw
// message might contain SQL or file paths and never goes to the client.
func writeError(w http.ResponseWriter, err error) {
	// Unauthenticated has a fixed wire contract — handle it before the
	// generic mapping so the body is exactly what API clients expect.
	if errors.Is(err, apperror.ErrUnauthorized) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not logged in"})
		return
	}

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
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
