package model

import "errors"

// Common errors used across the application
var (
	// Employee errors
	ErrEmployeeNotFound = errors.New("employee not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already registered")

	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Avatar errors
	ErrAvatarNotFound = errors.New("avatar not found")
)
