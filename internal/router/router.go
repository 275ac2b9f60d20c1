package router

import (
	"fmt"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/pinboard/backend/internal/catalog"
	"github.com/anonto42/pinboard/backend/internal/clients"
	"github.com/anonto42/pinboard/backend/internal/handlers"
	"github.com/anonto42/pinboard/backend/internal/middleware"
	"github.com/anonto42/pinboard/backend/internal/repositories"
	"github.com/anonto42/pinboard/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// BuildCatalog constructs the store backing selected by STORE_DRIVER and the
// catalog service on top of it. The driver is fixed for the process lifetime.
func BuildCatalog(cfg *config.Config) (*catalog.Service, func(), error) {
	switch cfg.StoreDriver {
	case "redis":
		client, err := config.InitRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		svc := catalog.NewService(
			repositories.NewRedisUserRepository(client),
			repositories.NewRedisSessionRepository(client),
			repositories.NewRedisPinRepository(client),
			repositories.NewRedisSavedPinRepository(client),
		)
		return svc, func() { _ = client.Close() }, nil

	case "mongo":
		client, err := config.InitMongo(cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database("pinboard")
		svc := catalog.NewService(
			repositories.NewMongoUserRepository(db),
			repositories.NewMongoSessionRepository(db),
			repositories.NewMongoPinRepository(db),
			repositories.NewMongoSavedPinRepository(db),
		)
		return svc, func() { config.CloseMongo(client) }, nil

	case "memory":
		logrus.Warn("using in-memory store, state is lost on restart")
		svc := catalog.NewService(
			repositories.NewMemoryUserRepository(),
			repositories.NewMemorySessionRepository(),
			repositories.NewMemoryPinRepository(),
			repositories.NewMemorySavedPinRepository(),
		)
		return svc, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// SetupRoutes wires the handlers onto the Echo instance
func SetupRoutes(e *echo.Echo, svc *catalog.Service, cfg *config.Config) {
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(svc)
	authHandler.RegisterAuthRoutes(api.Group("/auth"))

	pinHandler := handlers.NewPinHandler(svc)
	pinHandler.RegisterPublicRoutes(api)

	discoverHandler := handlers.NewDiscoverHandler(svc, clients.NewUnsplashClient(cfg.UnsplashAccessKey))
	discoverHandler.RegisterDiscoverRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.SessionAuthMiddleware(svc))
	pinHandler.RegisterProtectedRoutes(protected)

	savedPinHandler := handlers.NewSavedPinHandler(svc)
	savedPinHandler.RegisterSavedPinRoutes(protected)

	logrus.Info("all routes configured")
}
