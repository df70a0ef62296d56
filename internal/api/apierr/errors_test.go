package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/auth"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation keeps fields", model.NewFieldError("title", "cannot be blank"),
			http.StatusBadRequest, `{"code":"bad_request","errors":{"title":"cannot be blank"}}`},
		{"wrapped post not found", fmt.Errorf("load: %w", model.ErrPostNotFound),
			http.StatusNotFound, `{"code":"not_found"}`},
		{"employee not found", model.ErrEmployeeNotFound, http.StatusNotFound, `{"code":"not_found"}`},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound, `{"code":"not_found"}`},
		{"avatar not found", model.ErrAvatarNotFound, http.StatusNotFound, `{"code":"not_found"}`},
		{"email taken", model.ErrEmailTaken, http.StatusBadRequest, `{"code":"bad_request"}`},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, `{"code":"unauthorized"}`},
		{"bad token", auth.ErrInvalidToken, http.StatusUnauthorized, `{"code":"unauthorized"}`},
		{"explicit error", NewTooManyRequestsError(), http.StatusTooManyRequests, `{"code":"too_many_requests"}`},
		{"unknown error hides detail", errors.New("redis: connection refused"),
			http.StatusInternalServerError, `{"code":"internal_error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
