package repositories

import "errors"

// ErrNotFound is returned when a lookup matches no row visible to the caller.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write collides with a unique index.
var ErrDuplicate = errors.New("duplicate record")
