package request

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/services/posts"
)

// ErrMalformedBody is returned when a request body is not a JSON object
var ErrMalformedBody = errors.New("malformed request body")

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the JSON request body for registering a user.
// Multipart registrations carry the same names as form fields.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// ToInput converts the request to service input
func (r CreatePostRequest) ToInput() posts.Input {
	return posts.Input{Title: r.Title, Text: r.Text, Author: r.Author}
}

// DecodeCreatePost reads a post creation body
func DecodeCreatePost(r io.Reader) (CreatePostRequest, error) {
	fields, err := decodePostFields(r)
	if err != nil {
		return CreatePostRequest{}, err
	}
	return CreatePostRequest{
		Title:  valueOf(fields.Title),
		Text:   valueOf(fields.Text),
		Author: valueOf(fields.Author),
	}, nil
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UpdatePostRequest is the request body for a partial post update.
// Keys other than title, text and author are ignored. Absent keys leave the
// field unchanged; a null value clears it, which validation then rejects.
type UpdatePostRequest struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Author *string `json:"author"`
}

// ToPatch converts the request to a service patch
func (r UpdatePostRequest) ToPatch() posts.Patch {
	return posts.Patch{Title: r.Title, Text: r.Text, Author: r.Author}
}

// DecodeUpdatePost reads a partial post update body
func DecodeUpdatePost(r io.Reader) (UpdatePostRequest, error) {
	return decodePostFields(r)
}

// decodePostFields decodes title, text and author one key at a time so that
// every mistyped value is reported against its own field
func decodePostFields(r io.Reader) (UpdatePostRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return UpdatePostRequest{}, ErrMalformedBody
	}

	var req UpdatePostRequest
	fields := make(map[string]string)
	for key, dst := range map[string]**string{"title": &req.Title, "text": &req.Text, "author": &req.Author} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(value, &s); err != nil {
			fields[key] = "must be a string"
			continue
		}
		if s == nil {
			s = new(string)
		}
		*dst = s
	}
	if len(fields) > 0 {
		return UpdatePostRequest{}, &model.ValidationError{Fields: fields}
	}
	return req, nil
}
