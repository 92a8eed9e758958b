package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a write would give two users the same
// email address.
var ErrDuplicateEmail = errors.New("email already exists")
