package model

import "time"

// UserID uniquely identifies a registered user
type UserID string

// User is the credential record for a registered account.
// PasswordHash is a bcrypt hash; the plaintext is never stored.
type User struct {
	ID              UserID
	Name            string
	Email           string // unique, lowercase
	PasswordHash    string
	Bio             string
	Active          bool
	AvatarKey       string // object key in the avatar bucket, empty if none
	ActivationToken string // cleared once the account is confirmed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasAvatar reports whether the user uploaded an avatar
func (u *User) HasAvatar() bool {
	return u.AvatarKey != ""
}

// PendingActivation reports whether the account still awaits confirmation
func (u *User) PendingActivation() bool {
	return u.ActivationToken != ""
}
