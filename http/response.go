package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/stash"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is the body of successful requests that return no object.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type.
// Messages are fixed per error class so storage paths never reach the client.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stash.ErrUnauthorized):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, stash.ErrInvalidInput):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request")
	case errors.Is(err, stash.ErrConflict):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusConflict, "conflict", "Object already exists")
	case errors.Is(err, stash.ErrTooLarge):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Payload too large")
	case errors.Is(err, stash.ErrNotFound), errors.Is(err, stash.ErrUnsupportedContent):
		slog.Debug("request rejected", "error", err)
		WriteError(w, http.StatusNotFound, "not_found", "Object not found")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
