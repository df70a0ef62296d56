package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/auth"
)

// APIError is the body of every error response
type APIError struct {
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error codes
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeTooManyRequests  = "too_many_requests"
	CodeInternalError    = "internal_error"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Code
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.apiError)
}

// toHTTPError converts an error to an httpError. Validation errors keep
// their field messages; use NewBadRequestError to drop them.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return &httpError{http.StatusBadRequest, APIError{Code: CodeBadRequest, Errors: verr.Fields}}
	}

	switch {
	case errors.Is(err, model.ErrEmployeeNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrPostNotFound),
		errors.Is(err, model.ErrAvatarNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound}}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeBadRequest}}

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError}}
	}
}

// NewBadRequestError creates a bare bad_request error
func NewBadRequestError() error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeBadRequest}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized}}
}

// NewNotFoundError creates a not_found error
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound}}
}

// NewMethodNotAllowedError creates a method_not_allowed error
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeMethodNotAllowed}}
}

// NewTooManyRequestsError creates a too_many_requests error
func NewTooManyRequestsError() error {
	return &httpError{http.StatusTooManyRequests, APIError{Code: CodeTooManyRequests}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError}}
}
