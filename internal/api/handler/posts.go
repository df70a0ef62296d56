package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/staffapi/internal/api/middleware"
	"github.com/mcoot/staffapi/internal/api/request"
	"github.com/mcoot/staffapi/internal/api/response"
	sharedmw "github.com/mcoot/staffapi/internal/middleware"
	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/posts"
)

// PostHandler handles the post endpoints. All routes sit behind the auth gate.
type PostHandler struct {
	posts *posts.Service
}

// NewPostHandler creates a new post handler
func NewPostHandler(postsService *posts.Service) *PostHandler {
	return &PostHandler{posts: postsService}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := request.DecodeCreatePost(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeDecodeError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), req.ToInput())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PostFromModel(post))
}

// List handles GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.posts.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PostsFromModels(list))
}

// Get handles GET /api/posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), model.PostID(mux.Vars(r)["id"]))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PostFromModel(post))
}

// Update handles PATCH /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := request.DecodeUpdatePost(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeDecodeError(w, r, err)
		return
	}

	post, err := h.posts.Update(r.Context(), model.PostID(mux.Vars(r)["id"]), req.ToPatch())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PostFromModel(post))
}

// writeDecodeError reports mistyped fields with their messages and anything
// unreadable as a bare bad_request
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, r, verr)
		return
	}
	WriteError(w, r, NewBadRequestError())
}

// Delete handles DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PostID(mux.Vars(r)["id"])
	if err := h.posts.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}

	identity := middleware.MustGetIdentity(r.Context())
	sharedmw.LoggerFrom(r.Context()).Info("post deleted",
		slog.String("post_id", string(id)),
		slog.String("user_id", identity.Subject),
	)
	response.NoContent(w)
}
