package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/staffapi/internal/api/request"
	"github.com/mcoot/staffapi/internal/api/response"
	"github.com/mcoot/staffapi/internal/services/auth"
)

// AuthHandler handles login
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		WriteError(w, r, NewBadRequestError())
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteError(w, r, NewBadRequestError())
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenResponse{Token: token})
}
