package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.redis = NewWithClient(client, DefaultConfig())
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Redis-specific tests

func (s *StorageSuite) TestKeysUsePrefix() {
	user := &model.User{ID: "u1", Email: "alice@example.com", ActivationToken: "tok1"}
	s.Require().NoError(s.redis.CreateUser(s.Ctx, user))

	s.True(s.mini.Exists("staffapi:user:u1"))
	s.True(s.mini.Exists("staffapi:idx:email:alice@example.com"))
	s.True(s.mini.Exists("staffapi:idx:activation:tok1"))
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	store := NewWithClient(client, Config{KeyPrefix: "other"})
	defer func() { _ = store.Close() }()

	post := &model.Post{ID: "p1", Title: "A title", CreatedAt: time.Now()}
	s.Require().NoError(store.SavePost(s.Ctx, post))

	s.True(s.mini.Exists("other:post:p1"))
	s.False(s.mini.Exists("staffapi:post:p1"))
}

func (s *StorageSuite) TestPostIndexScoredByCreatedAt() {
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.redis.SavePost(s.Ctx, &model.Post{ID: "p1", CreatedAt: createdAt}))

	score, err := s.mini.ZScore("staffapi:idx:posts_by_created", "p1")
	s.Require().NoError(err)
	s.Equal(float64(createdAt.UnixMilli()), score)
}

func (s *StorageSuite) TestListPostsSkipsMissingDocuments() {
	s.Require().NoError(s.redis.SavePost(s.Ctx, &model.Post{ID: "p1", CreatedAt: time.Now()}))
	s.mini.Del("staffapi:post:p1")

	posts, err := s.redis.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Empty(posts)
}

func (s *StorageSuite) TestNewFailsWhenUnreachable() {
	cfg := DefaultConfig()
	cfg.URL = "redis://127.0.0.1:1"
	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"
	_, err := New(cfg)
	s.Error(err)
}
