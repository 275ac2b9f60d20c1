package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/catalog"
)

const (
	// ContextUserKey is where the resolved user is stored on the request context
	ContextUserKey = "user"
)

// BearerToken extracts the session token from the Authorization header. The
// web client sends the raw token; a "Bearer " prefix is accepted too.
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return header
}

// SessionAuthMiddleware resolves the bearer token to a user and rejects the
// request with 401 when it cannot. A store failure is a 503, not a 401.
func SessionAuthMiddleware(svc *catalog.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			user, err := svc.UserFromToken(c.Request().Context(), token)
			if errors.Is(err, catalog.ErrUnauthorized) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid session token")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
