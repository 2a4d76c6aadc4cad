package model

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist for the given
	// natural key. Repositories map driver-level "no rows" onto this so
	// callers can use errors.Is.
	ErrNotFound = errors.New("catalog entity not found")

	// ErrDuplicateKey is returned when an insert collides with an existing
	// natural key (unique constraint violation).
	ErrDuplicateKey = errors.New("catalog natural key already exists")
)
