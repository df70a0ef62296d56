package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/staffapi/internal/api/apierr"
	"github.com/mcoot/staffapi/internal/middleware"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError

// WriteError writes an error response, logging anything that maps to a 500
// with the request logger. Internal details never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		middleware.LoggerFrom(r.Context()).Error("request failed", slog.String("error", err.Error()))
	}
	apierr.WriteError(w, err)
}

// NewBadRequestError creates a bare bad_request error
func NewBadRequestError() error {
	return apierr.NewBadRequestError()
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewNotFoundError creates a not_found error
func NewNotFoundError() error {
	return apierr.NewNotFoundError()
}
