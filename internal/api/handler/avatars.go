package handler

import (
	"context"
	"io"
	"net/http"
	"path"

	"github.com/gorilla/mux"

	"github.com/mcoot/staffapi/internal/api/response"
)

// AvatarReader opens stored avatar objects
type AvatarReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// AvatarHandler serves uploaded avatars
type AvatarHandler struct {
	avatars AvatarReader
}

// NewAvatarHandler creates a new avatar handler
func NewAvatarHandler(avatars AvatarReader) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Get handles GET /uploads/avatars/{file}
func (h *AvatarHandler) Get(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if file == "" || file != path.Base(file) || file == "." || file == ".." {
		WriteError(w, r, NewNotFoundError())
		return
	}

	body, contentType, err := h.avatars.Get(r.Context(), "avatars/"+file)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	defer body.Close()

	response.Stream(w, contentType, body)
}
