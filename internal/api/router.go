package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/staffapi/internal/api/apierr"
	"github.com/mcoot/staffapi/internal/api/handler"
	"github.com/mcoot/staffapi/internal/api/middleware"
	"github.com/mcoot/staffapi/internal/api/response"
	sharedmw "github.com/mcoot/staffapi/internal/middleware"
	"github.com/mcoot/staffapi/internal/services/auth"
	"github.com/mcoot/staffapi/internal/services/directory"
	"github.com/mcoot/staffapi/internal/services/posts"
	"github.com/mcoot/staffapi/internal/services/users"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	UsersService *users.Service
	PostsService *posts.Service
	Directory    *directory.Directory
	Avatars      handler.AvatarReader

	// AuthRateLimit applies per client IP to login and registration
	AuthRateLimit sharedmw.RateLimitConfig
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	withJSONErrors(r)

	// Create handlers
	employeeHandler := handler.NewEmployeeHandler(cfg.Directory)
	userHandler := handler.NewUserHandler(cfg.UsersService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	postHandler := handler.NewPostHandler(cfg.PostsService)
	avatarHandler := handler.NewAvatarHandler(cfg.Avatars)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loginLimit := middleware.RateLimit(cfg.AuthRateLimit)
	registerLimit := middleware.RateLimit(cfg.AuthRateLimit)

	api := withJSONErrors(r.PathPrefix("/api").Subrouter())

	// Employee directory (public); /oldest must be registered before /{name}
	api.HandleFunc("/employees", employeeHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/employees", employeeHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/employees/oldest", employeeHandler.Oldest).Methods(http.MethodGet)
	api.HandleFunc("/employees/{name}", employeeHandler.Get).Methods(http.MethodGet)

	// Users and login (public)
	api.Handle("/users", registerLimit(http.HandlerFunc(userHandler.Register))).Methods(http.MethodPost)
	api.HandleFunc("/users/confirm/{token}", userHandler.Confirm).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)
	api.Handle("/login", loginLimit(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)

	// Posts (all require a bearer token)
	postRoutes := withJSONErrors(api.PathPrefix("/posts").Subrouter())
	postRoutes.Use(authMiddleware)
	postRoutes.HandleFunc("", postHandler.Create).Methods(http.MethodPost)
	postRoutes.HandleFunc("", postHandler.List).Methods(http.MethodGet)
	postRoutes.HandleFunc("/{id}", postHandler.Get).Methods(http.MethodGet)
	postRoutes.HandleFunc("/{id}", postHandler.Update).Methods(http.MethodPatch)
	postRoutes.HandleFunc("/{id}", postHandler.Delete).Methods(http.MethodDelete)

	// Uploaded files
	r.HandleFunc("/uploads/avatars/{file}", avatarHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Logging wraps recovery so panics are logged with the request ID and
	// their 500 shows up in the request log
	return middleware.Logging(cfg.Logger)(middleware.Recovery(cfg.Logger)(r))
}

// withJSONErrors sets the JSON 404/405 handlers. Subrouters do not inherit
// them from their parent, and without them a method mismatch inside a
// subrouter is reported as not found.
func withJSONErrors(r *mux.Router) *mux.Router {
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{OK: true})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
