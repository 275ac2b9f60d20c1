package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/catalog"
	"github.com/anonto42/pinboard/backend/internal/middleware"
	"github.com/anonto42/pinboard/backend/internal/models"
)

// getUserFromContext returns the session user placed by the auth middleware,
// or nil on unauthenticated routes.
func getUserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(middleware.ContextUserKey).(*models.User)
	return user
}

// PinHandler handles pin catalog HTTP requests
type PinHandler struct {
	catalog *catalog.Service
}

// NewPinHandler creates a new PinHandler
func NewPinHandler(svc *catalog.Service) *PinHandler {
	return &PinHandler{catalog: svc}
}

// RegisterPublicRoutes registers the pin routes that need no session
func (h *PinHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/pins", h.ListPins)
	g.GET("/pins/:id", h.GetPin)
	g.POST("/pins", h.IngestPins)
}

// RegisterProtectedRoutes registers the owner-gated pin routes
func (h *PinHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.PUT("/pins/:id", h.UpdatePin)
	g.DELETE("/pins/:id", h.DeletePin)
}

// ListPins returns the whole catalog
func (h *PinHandler) ListPins(c echo.Context) error {
	pins, err := h.catalog.ListPins(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, pins)
}

// GetPin returns one pin by id
func (h *PinHandler) GetPin(c echo.Context) error {
	pin, err := h.catalog.GetPin(c.Request().Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, pin)
}

// IngestPins bulk-inserts pins, skipping ids that already exist. Re-posting
// the same batch is a no-op, never an overwrite.
func (h *PinHandler) IngestPins(c echo.Context) error {
	var pins []models.Pin
	if err := c.Bind(&pins); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	inserted := h.catalog.IngestPins(c.Request().Context(), pins)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "inserted": inserted})
}

// UpdatePin overwrites the mutable fields of a pin owned by the requester
func (h *PinHandler) UpdatePin(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdatePinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pin, err := h.catalog.UpdatePin(c.Request().Context(), currentUser.ID, c.Param("id"), &req)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
	case errors.Is(err, catalog.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Only the creator can update a pin")
	case err != nil:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "pin": pin})
}

// DeletePin removes a pin owned by the requester
func (h *PinHandler) DeletePin(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.catalog.DeletePin(c.Request().Context(), currentUser.ID, c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
	case errors.Is(err, catalog.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Only the creator can delete a pin")
	case err != nil:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
