package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/staffapi/internal/api/apierr"
	"github.com/mcoot/staffapi/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// RateLimit limits requests per client IP, answering 429 too_many_requests
func RateLimit(cfg middleware.RateLimitConfig) func(http.Handler) http.Handler {
	key := middleware.ClientIP
	if cfg.TrustForwarded {
		key = middleware.ForwardedClientIP
	}
	return middleware.RateLimit(cfg, key, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewTooManyRequestsError())
	})
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
