package store

import "errors"

// Store errors surfaced to the request handlers
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
	ErrOrderNotFound     = errors.New("order not found")
)
