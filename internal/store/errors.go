package store

import "errors"

// ErrNotFound is returned by Get when no document exists at the path.
// Queries never return it; an empty result is a legitimate answer.
var ErrNotFound = errors.New("document not found")
