package response

import (
	"time"

	"github.com/mcoot/staffapi/internal/model"
)

// Post represents a post in API responses
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostFromModel converts a model.Post to a response Post
func PostFromModel(p *model.Post) Post {
	return Post{
		ID:        string(p.ID),
		Title:     p.Title,
		Text:      p.Text,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PostsFromModels converts a list of posts, never returning nil
func PostsFromModels(posts []*model.Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = PostFromModel(p)
	}
	return out
}

// User is the public view of an account. The password hash and raw
// activation token are never included.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio"`
	Active        bool      `json:"active"`
	AvatarURL     string    `json:"avatarUrl,omitempty"`
	ActivationURL string    `json:"activationUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserLinks builds the public links for a user
type UserLinks interface {
	AvatarURL(u *model.User) string
	ActivationURL(u *model.User) string
}

// UserFromModel converts a model.User to its public view
func UserFromModel(u *model.User, links UserLinks) User {
	return User{
		ID:            string(u.ID),
		Name:          u.Name,
		Email:         u.Email,
		Bio:           u.Bio,
		Active:        u.Active,
		AvatarURL:     links.AvatarURL(u),
		ActivationURL: links.ActivationURL(u),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// TokenResponse is the response for a successful login
type TokenResponse struct {
	Token string `json:"token"`
}

// ActivatedResponse is the response for a confirmed account
type ActivatedResponse struct {
	Activated bool `json:"activated"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	OK bool `json:"ok"`
}
