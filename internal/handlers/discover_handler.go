package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/pinboard/backend/internal/catalog"
	"github.com/anonto42/pinboard/backend/internal/clients"
	"github.com/anonto42/pinboard/backend/internal/models"
)

const discoverBatchSize = 30

// DiscoverHandler ingests pins from the external image source
type DiscoverHandler struct {
	catalog  *catalog.Service
	unsplash *clients.UnsplashClient
}

// NewDiscoverHandler creates a new DiscoverHandler
func NewDiscoverHandler(svc *catalog.Service, unsplash *clients.UnsplashClient) *DiscoverHandler {
	return &DiscoverHandler{catalog: svc, unsplash: unsplash}
}

// RegisterDiscoverRoutes registers the discover routes
func (h *DiscoverHandler) RegisterDiscoverRoutes(g *echo.Group) {
	g.GET("/images/discover", h.Discover)
}

// Discover fetches a batch of random photos, normalizes them into pins and
// ingests them idempotently. reset=true clears the catalog first; that is the
// only path allowed to trigger the wipe.
func (h *DiscoverHandler) Discover(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("reset") == "true" {
		if err := h.catalog.ResetCatalog(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Store unavailable")
		}
	}

	photos, err := h.unsplash.RandomPhotos(ctx, discoverBatchSize)
	if err != nil {
		logrus.WithError(err).Error("failed to fetch images from provider")
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to fetch images")
	}

	pins := make([]models.Pin, len(photos))
	for i, photo := range photos {
		pins[i] = clients.PinFromPhoto(photo)
	}
	h.catalog.IngestPins(ctx, pins)

	return c.JSON(http.StatusOK, echo.Map{"images": pins})
}
