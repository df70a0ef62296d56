// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/staffapi/internal/model"
	"github.com/mcoot/staffapi/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage.
// Backend packages embed it and set NewStorage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newUser(id model.UserID, email, token string) *model.User {
	return &model.User{
		ID:              id,
		Name:            "Alice",
		Email:           email,
		PasswordHash:    "hash",
		ActivationToken: token,
		CreatedAt:       baseTime,
		UpdatedAt:       baseTime,
	}
}

func newPost(id model.PostID, createdAt time.Time) *model.Post {
	return &model.Post{
		ID:        id,
		Title:     "A title",
		Text:      "Some text",
		Author:    "alice",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// User tests

func (s *Suite) TestCreateAndGetUser() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "tok1")))

	u, err := s.Storage.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", u.Email)
	s.Equal("tok1", u.ActivationToken)
	s.True(baseTime.Equal(u.CreatedAt))
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestCreateUserRejectsDuplicateEmail() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "")))

	err := s.Storage.CreateUser(s.Ctx, newUser("u2", "alice@example.com", ""))
	s.ErrorIs(err, model.ErrEmailTaken)

	_, err = s.Storage.GetUser(s.Ctx, "u2")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByEmail() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "")))

	u, err := s.Storage.GetUserByEmail(s.Ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), u.ID)

	_, err = s.Storage.GetUserByEmail(s.Ctx, "bob@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByActivationToken() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "tok1")))

	u, err := s.Storage.GetUserByActivationToken(s.Ctx, "tok1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), u.ID)
}

func (s *Suite) TestSaveUserClearsActivationIndex() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "tok1")))

	u, err := s.Storage.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	u.Active = true
	u.ActivationToken = ""
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, u))

	_, err = s.Storage.GetUserByActivationToken(s.Ctx, "tok1")
	s.ErrorIs(err, model.ErrUserNotFound)

	saved, err := s.Storage.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.True(saved.Active)
	s.Empty(saved.ActivationToken)
}

func (s *Suite) TestSaveUserUnknownID() {
	err := s.Storage.SaveUser(s.Ctx, newUser("ghost", "ghost@example.com", ""))
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestReturnedUserIsACopy() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, newUser("u1", "alice@example.com", "")))

	u, _ := s.Storage.GetUser(s.Ctx, "u1")
	u.Name = "Mallory"

	again, err := s.Storage.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Alice", again.Name)
}

// Post tests

func (s *Suite) TestSaveAndGetPost() {
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p1", baseTime)))

	p, err := s.Storage.GetPost(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("A title", p.Title)
	s.Equal("alice", p.Author)
}

func (s *Suite) TestGetPostNotFound() {
	_, err := s.Storage.GetPost(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPostNotFound)
}

func (s *Suite) TestSavePostOverwrites() {
	p := newPost("p1", baseTime)
	s.Require().NoError(s.Storage.SavePost(s.Ctx, p))

	p.Title = "Changed title"
	s.Require().NoError(s.Storage.SavePost(s.Ctx, p))

	got, err := s.Storage.GetPost(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Changed title", got.Title)

	all, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestUpdatePost() {
	p := newPost("p1", baseTime)
	s.Require().NoError(s.Storage.SavePost(s.Ctx, p))

	p.Title = "Changed title"
	s.Require().NoError(s.Storage.UpdatePost(s.Ctx, p))

	got, err := s.Storage.GetPost(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Changed title", got.Title)

	all, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *Suite) TestUpdatePostAfterDelete() {
	p := newPost("p1", baseTime)
	s.Require().NoError(s.Storage.SavePost(s.Ctx, p))
	s.Require().NoError(s.Storage.DeletePost(s.Ctx, "p1"))

	s.ErrorIs(s.Storage.UpdatePost(s.Ctx, p), model.ErrPostNotFound)

	_, err := s.Storage.GetPost(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPostNotFound)
	all, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *Suite) TestListPostsNewestFirst() {
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p1", baseTime)))
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p3", baseTime.Add(2*time.Minute))))
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p2", baseTime.Add(time.Minute))))

	posts, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal(model.PostID("p3"), posts[0].ID)
	s.Equal(model.PostID("p2"), posts[1].ID)
	s.Equal(model.PostID("p1"), posts[2].ID)
}

func (s *Suite) TestListPostsTieBreaksOnID() {
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p1", baseTime)))
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p2", baseTime)))

	posts, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(model.PostID("p2"), posts[0].ID)
}

func (s *Suite) TestListPostsEmpty() {
	posts, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.NotNil(posts)
	s.Empty(posts)
}

func (s *Suite) TestDeletePost() {
	s.Require().NoError(s.Storage.SavePost(s.Ctx, newPost("p1", baseTime)))

	s.Require().NoError(s.Storage.DeletePost(s.Ctx, "p1"))

	_, err := s.Storage.GetPost(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPostNotFound)

	posts, err := s.Storage.ListPosts(s.Ctx)
	s.Require().NoError(err)
	s.Empty(posts)
}

func (s *Suite) TestDeletePostNotFound() {
	err := s.Storage.DeletePost(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPostNotFound)
}
