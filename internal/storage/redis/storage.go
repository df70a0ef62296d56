package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Documents are stored as JSON strings; lookups by email, activation token
// and creation order go through index keys written alongside the document.
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Claim the email first; SETNX makes the uniqueness check atomic
	emailKey := s.keys.emailIndex(user.Email)
	claimed, err := s.client.SetNX(ctx, emailKey, string(user.ID), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return model.ErrEmailTaken
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.user(user.ID), data, 0)
	if user.ActivationToken != "" {
		pipe.Set(ctx, s.keys.activationIndex(user.ActivationToken), string(user.ID), 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		// Release the email so a retry can succeed
		_ = s.client.Del(ctx, emailKey).Err()
		return err
	}
	return nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	prev, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if prev.Email != user.Email {
		claimed, err := s.client.SetNX(ctx, s.keys.emailIndex(user.Email), string(user.ID), 0).Result()
		if err != nil {
			return err
		}
		if !claimed {
			return model.ErrEmailTaken
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.user(user.ID), data, 0)
	if prev.Email != user.Email {
		pipe.Del(ctx, s.keys.emailIndex(prev.Email))
	}
	if prev.ActivationToken != "" && prev.ActivationToken != user.ActivationToken {
		pipe.Del(ctx, s.keys.activationIndex(prev.ActivationToken))
	}
	if user.ActivationToken != "" {
		pipe.Set(ctx, s.keys.activationIndex(user.ActivationToken), string(user.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, s.keys.user(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUserByIndex(ctx, s.keys.emailIndex(email))
}

func (s *Storage) GetUserByActivationToken(ctx context.Context, token string) (*model.User, error) {
	return s.getUserByIndex(ctx, s.keys.activationIndex(token))
}

// getUserByIndex resolves an index key to a user ID, then loads the user
func (s *Storage) getUserByIndex(ctx context.Context, indexKey string) (*model.User, error) {
	userID, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userID))
}

// Post operations

func (s *Storage) SavePost(ctx context.Context, post *model.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	// Document and ordering index are written together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.post(post.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.postsByCreated(), redis.Z{
		Score:  float64(post.CreatedAt.UnixMilli()),
		Member: string(post.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

// UpdatePost only writes the document. CreatedAt never changes, so the
// ordering index is left alone.
func (s *Storage) UpdatePost(ctx context.Context, post *model.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}

	// XX makes the write fail if a delete got there first
	updated, err := s.client.SetXX(ctx, s.keys.post(post.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrPostNotFound
	}
	return nil
}

func (s *Storage) GetPost(ctx context.Context, id model.PostID) (*model.Post, error) {
	data, err := s.client.Get(ctx, s.keys.post(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPostNotFound
		}
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) ListPosts(ctx context.Context) ([]*model.Post, error) {
	// Equal scores come back in reverse member order, and post IDs sort by
	// creation, so ties still list newest first
	ids, err := s.client.ZRevRange(ctx, s.keys.postsByCreated(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Post{}, nil
	}

	postKeys := make([]string, len(ids))
	for i, id := range ids {
		postKeys[i] = s.keys.post(model.PostID(id))
	}

	values, err := s.client.MGet(ctx, postKeys...).Result()
	if err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between ZREVRANGE and MGET
		}
		var post model.Post
		if err := json.Unmarshal([]byte(str), &post); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, &post)
	}

	return posts, nil
}

func (s *Storage) DeletePost(ctx context.Context, id model.PostID) error {
	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, s.keys.post(id))
	pipe.ZRem(ctx, s.keys.postsByCreated(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}
