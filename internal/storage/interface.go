package storage

import (
	"context"

	"github.com/mcoot/staffapi/internal/model"
)

// Storage is the document store holding user and post records
type Storage interface {
	// User operations

	// CreateUser inserts a new user, failing with model.ErrEmailTaken when
	// the email is already registered
	CreateUser(ctx context.Context, user *model.User) error
	// SaveUser replaces an existing user document and keeps its indexes current
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByActivationToken(ctx context.Context, token string) (*model.User, error)

	// Post operations

	SavePost(ctx context.Context, post *model.Post) error
	// UpdatePost replaces an existing post, failing with model.ErrPostNotFound
	// if it has been deleted
	UpdatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id model.PostID) (*model.Post, error)
	// ListPosts returns every post, newest CreatedAt first
	ListPosts(ctx context.Context) ([]*model.Post, error)
	// DeletePost removes a post, failing with model.ErrPostNotFound if absent
	DeletePost(ctx context.Context, id model.PostID) error
}
