// Package httpx holds the small HTTP helpers every handler package shares.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
)

// MessageBody is the shape of every error response and of plain
// acknowledgements.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageBody{Message: msg})
}

// WriteError maps err onto a status and message. Server-side failures are
// logged with the request's method, path and id.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError && logger != nil {
		apperr.Log(logger, "request failed", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
	WriteMessage(w, status, apperr.Message(err))
}

// DecodeJSON decodes the request body into v. A body cut off by
// http.MaxBytesReader is reported as ErrBodyTooLarge.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return ErrBodyTooLarge
		}
		return apperr.Validation("Invalid request body")
	}
	return nil
}
