package posts

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mcoot/staffapi/internal/dependencies/clock"
	"github.com/mcoot/staffapi/internal/dependencies/idgen"
	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

// MinLength is the shortest accepted title or text, after trimming
const MinLength = 6

// Input carries the fields of a new post
type Input struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Author *string `json:"author"`
}

// Service provides validated CRUD over posts
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	logger  *slog.Logger
}

// New creates a new posts Service
func New(storage storage.Storage, clk clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		ids:     ids,
		logger:  logger,
	}
}

// Create validates and stores a new post
func (s *Service) Create(ctx context.Context, in Input) (*model.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
	in.Author = strings.TrimSpace(in.Author)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(MinLength, 0)),
		validation.Field(&in.Text, validation.Required, validation.Length(MinLength, 0)),
		validation.Field(&in.Author, validation.Required),
	)
	if err != nil {
		return nil, model.NewValidationError(err)
	}

	now := s.clock.Now()
	post := &model.Post{
		ID:        model.PostID(s.ids.ULID(now)),
		Title:     in.Title,
		Text:      in.Text,
		Author:    in.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.SavePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created", slog.String("post_id", string(post.ID)))
	return post, nil
}

// List returns all posts, newest first
func (s *Service) List(ctx context.Context) ([]*model.Post, error) {
	return s.storage.ListPosts(ctx)
}

// Get returns a single post
func (s *Service) Get(ctx context.Context, id model.PostID) (*model.Post, error) {
	return s.storage.GetPost(ctx, id)
}

// Update applies a partial update. The patch is validated before the post
// is looked up, so invalid input is reported even for a missing post.
func (s *Service) Update(ctx context.Context, id model.PostID, patch Patch) (*model.Post, error) {
	trim(patch.Title)
	trim(patch.Text)
	trim(patch.Author)

	// absent fields pass; present ones follow the Create rules
	err := validation.ValidateStruct(&patch,
		validation.Field(&patch.Title, validation.NilOrNotEmpty, validation.Length(MinLength, 0)),
		validation.Field(&patch.Text, validation.NilOrNotEmpty, validation.Length(MinLength, 0)),
		validation.Field(&patch.Author, validation.NilOrNotEmpty),
	)
	if err != nil {
		return nil, model.NewValidationError(err)
	}

	post, err := s.storage.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Text != nil {
		post.Text = *patch.Text
	}
	if patch.Author != nil {
		post.Author = *patch.Author
	}
	post.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post
func (s *Service) Delete(ctx context.Context, id model.PostID) error {
	return s.storage.DeletePost(ctx, id)
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
