package store

import "errors"

// Common store errors
var (
	// ErrNotFound is returned when a user or session is absent. An
	// expired session is indistinguishable from an absent one.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when creating a user whose email is
	// already taken.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)
