package model

import "time"

// PostID uniquely identifies a post
type PostID string

// Post is a document in the posts collection
type Post struct {
	ID        PostID
	Title     string
	Text      string
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
