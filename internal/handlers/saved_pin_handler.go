package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/anonto42/pinboard/backend/internal/catalog"
)

// SavedPinHandler handles the per-user saved-pin set
type SavedPinHandler struct {
	catalog *catalog.Service
}

// NewSavedPinHandler creates a new SavedPinHandler
func NewSavedPinHandler(svc *catalog.Service) *SavedPinHandler {
	return &SavedPinHandler{catalog: svc}
}

// RegisterSavedPinRoutes registers saved pin routes
func (h *SavedPinHandler) RegisterSavedPinRoutes(g *echo.Group) {
	g.GET("/saved-pins", h.GetSavedPinIDs)
	g.POST("/saved-pins", h.SyncSavedPins)
	g.POST("/pins/:id/save", h.SavePin)
	g.DELETE("/pins/:id/save", h.UnsavePin)
}

// GetSavedPinIDs returns the ids of every pin the user has saved
func (h *SavedPinHandler) GetSavedPinIDs(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	ids, err := h.catalog.SavedPinIDs(c.Request().Context(), currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, ids)
}

// SyncSavedPins replaces the user's saved set with the posted id list
func (h *SavedPinHandler) SyncSavedPins(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var ids []string
	if err := c.Bind(&ids); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.catalog.SyncSavedPins(c.Request().Context(), currentUser.ID, ids); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SavePin bookmarks a pin
func (h *SavedPinHandler) SavePin(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.catalog.SavePin(c.Request().Context(), currentUser.ID, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Pin not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnsavePin removes a pin from the saved set
func (h *SavedPinHandler) UnsavePin(c echo.Context) error {
	currentUser := getUserFromContext(c)
	if currentUser == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.catalog.UnsavePin(c.Request().Context(), currentUser.ID, c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}
