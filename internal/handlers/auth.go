package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/catalog"
	"github.com/anonto42/pinboard/backend/internal/middleware"
	"github.com/anonto42/pinboard/backend/internal/models"
)

// AuthHandler handles registration, login and session introspection
type AuthHandler struct {
	catalog *catalog.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(svc *catalog.Service) *AuthHandler {
	return &AuthHandler{catalog: svc}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/user", h.CurrentUser)
}

// Register handles account creation. Duplicate identifiers come back as a
// success=false payload, matching what the web client expects.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.catalog.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, catalog.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Email already exists."})
	case errors.Is(err, catalog.ErrDuplicateUsername):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Username taken."})
	case err != nil:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": user})
}

// Login authenticates with email or username and returns a session token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.catalog.Login(c.Request().Context(), req.Identifier, req.Password)
	if errors.Is(err, catalog.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials."})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

// Logout revokes the presented session token. A missing token is still a
// success: logout is primarily client-local.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.BearerToken(c)
	if token != "" {
		if err := h.catalog.RevokeSession(c.Request().Context(), token); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CurrentUser resolves the bearer token to its account
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, err := h.catalog.UserFromToken(c.Request().Context(), middleware.BearerToken(c))
	if errors.Is(err, catalog.ErrUnauthorized) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid session token")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, user)
}
