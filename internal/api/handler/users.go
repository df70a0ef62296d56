package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/staffapi/internal/api/request"
	"github.com/mcoot/staffapi/internal/api/response"
	"github.com/mcoot/staffapi/internal/middleware"
	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/users"
)

// multipartMemory is how much of a multipart form is held in memory before
// spilling to temporary files
const multipartMemory = 1 << 20

// UserHandler handles registration, activation and profile endpoints
type UserHandler struct {
	users *users.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(usersService *users.Service) *UserHandler {
	return &UserHandler{users: usersService}
}

// Register handles POST /api/users. It accepts a JSON body or a multipart
// form with an optional "avatar" file. Invalid input and duplicate emails
// both answer a bare bad_request.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	in, avatar, err := h.parseRegistration(w, r)
	if err != nil {
		middleware.LoggerFrom(r.Context()).Debug("unreadable registration", slog.String("error", err.Error()))
		WriteError(w, r, NewBadRequestError())
		return
	}

	user, err := h.users.Register(r.Context(), in, avatar)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) || errors.Is(err, model.ErrEmailTaken) {
			middleware.LoggerFrom(r.Context()).Debug("registration rejected", slog.String("error", err.Error()))
			WriteError(w, r, NewBadRequestError())
			return
		}
		WriteError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.UserFromModel(user, h.users))
}

func (h *UserHandler) parseRegistration(w http.ResponseWriter, r *http.Request) (users.RegisterInput, *users.AvatarUpload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req request.RegisterRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			return users.RegisterInput{}, nil, err
		}
		return users.RegisterInput(req), nil, nil
	}

	limit := h.users.AvatarMaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return users.RegisterInput{}, nil, err
	}

	in := users.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Bio:      r.FormValue("bio"),
	}

	file, header, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return users.RegisterInput{}, nil, err
	}
	defer file.Close()

	// one byte past the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return users.RegisterInput{}, nil, err
	}

	return in, &users.AvatarUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Confirm handles GET /api/users/confirm/{token}
func (h *UserHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.users.Confirm(r.Context(), mux.Vars(r)["token"]); err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ActivatedResponse{Activated: true})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), model.UserID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user, h.users))
}
