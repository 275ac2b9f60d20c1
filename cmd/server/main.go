package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/anonto42/pinboard/backend/internal/router"
	"github.com/anonto42/pinboard/backend/pkg/config"
	"github.com/anonto42/pinboard/backend/validators"
)

func main() {
	config.LoadDotenv()
	cfg := config.Load()

	svc, closeStore, err := router.BuildCatalog(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	e := echo.New()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, svc, cfg)
	e.Validator = validators.NewValidator()

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
