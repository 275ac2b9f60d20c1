package repositories

import "errors"

// Sentinel errors shared by every store backing. Anything else returned by a
// repository is a store failure and should be treated as retryable by callers.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username taken")
)
