// Package handler contains the HTTP handlers. Handlers parse requests and
// write responses; all rules live in the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJayasuriya/Ai-scraper/internal/apperror"
)

// ErrorResponse is the single error shape returned by every endpoint, so
// the frontend always knows what fields to expect.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable error type
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // which input field caused a validation error
}

// writeJSON sends a JSON response. Headers and status must go out before
// the body — Encode starts writing immediately.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// This is the only place the error taxonomy meets HTTP. The service layer
// returns apperror sentinels and has no idea status codes exist. All three
// session sentinels and the credentials error map to 401 — for the client
// they mean the same thing, "show the login form" — while the body's error
// field stays distinct for debugging.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrAuthentication):
			status = http.StatusUnauthorized
			errorType = "authentication_failed"
		case errors.Is(err, apperror.ErrSessionNotFound):
			status = http.StatusUnauthorized
			errorType = "session_not_found"
		case errors.Is(err, apperror.ErrSessionExpired):
			status = http.StatusUnauthorized
			errorType = "session_expired"
		case errors.Is(err, apperror.ErrSessionInactive):
			status = http.StatusUnauthorized
			errorType = "session_inactive"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error: never leak internals (SQL, paths) to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
