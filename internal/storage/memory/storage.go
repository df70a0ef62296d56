package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied on the way in and out, as a real store would.
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]model.User
	emailIndex      map[string]model.UserID
	activationIndex map[string]model.UserID
	posts           map[model.PostID]model.Post
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]model.User),
		emailIndex:      make(map[string]model.UserID),
		activationIndex: make(map[string]model.UserID),
		posts:           make(map[model.PostID]model.Post),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emailIndex[user.Email]; taken {
		return model.ErrEmailTaken
	}
	s.putUser(*user)
	return nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[user.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	if prev.Email != user.Email {
		if owner, taken := s.emailIndex[user.Email]; taken && owner != user.ID {
			return model.ErrEmailTaken
		}
		delete(s.emailIndex, prev.Email)
	}
	if prev.ActivationToken != "" {
		delete(s.activationIndex, prev.ActivationToken)
	}
	s.putUser(*user)
	return nil
}

// putUser stores the document and its index entries; caller holds the lock
func (s *Storage) putUser(u model.User) {
	s.users[u.ID] = u
	s.emailIndex[u.Email] = u.ID
	if u.ActivationToken != "" {
		s.activationIndex[u.ActivationToken] = u.ID
	}
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByID(id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.userByID(id)
}

func (s *Storage) GetUserByActivationToken(ctx context.Context, token string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.activationIndex[token]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return s.userByID(id)
}

func (s *Storage) userByID(id model.UserID) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

// Post operations

func (s *Storage) SavePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return nil
}

func (s *Storage) UpdatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return model.ErrPostNotFound
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *Storage) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return &p, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*model.Post, error) {
	s.mu.RLock()
	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, &p)
	}
	s.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}

func (s *Storage) DeletePost(ctx context.Context, id model.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return model.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}
