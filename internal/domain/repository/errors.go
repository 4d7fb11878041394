package repository

import "errors"

var (
	// ErrNotFound indicates that no record matches the lookup.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates that a write hit a unique constraint of the store.
	ErrConflict = errors.New("repository: unique constraint violated")
)
