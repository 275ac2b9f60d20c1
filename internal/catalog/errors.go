package catalog

import (
	"errors"

	"github.com/anonto42/pinboard/backend/internal/repositories"
)

// Typed results returned to handlers. Everything outside this taxonomy is a
// store failure and maps to a retryable 5xx.
var (
	ErrDuplicateEmail     = repositories.ErrDuplicateEmail
	ErrDuplicateUsername  = repositories.ErrDuplicateUsername
	ErrNotFound           = repositories.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)
