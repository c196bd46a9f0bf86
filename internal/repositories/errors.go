package repositories

import "errors"

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("not found")
