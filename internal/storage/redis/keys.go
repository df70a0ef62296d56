package redis

import (
	"fmt"

	"github.com/mcoot/staffapi/internal/model"
)

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// user returns the key for a User document
func (k keys) user(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", k.prefix, id)
}

// emailIndex returns the key for the email -> user_id index
func (k keys) emailIndex(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", k.prefix, email)
}

// activationIndex returns the key for the activation token -> user_id index
func (k keys) activationIndex(token string) string {
	return fmt.Sprintf("%s:idx:activation:%s", k.prefix, token)
}

// post returns the key for a Post document
func (k keys) post(id model.PostID) string {
	return fmt.Sprintf("%s:post:%s", k.prefix, id)
}

// postsByCreated returns the key for the ZSET of post IDs scored by creation time
func (k keys) postsByCreated() string {
	return fmt.Sprintf("%s:idx:posts_by_created", k.prefix)
}
