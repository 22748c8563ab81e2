// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/domain/catalog"
	"inventory/internal/domain/pricing"
	"inventory/internal/infrastructure/http/v1/handlers"
	"inventory/internal/infrastructure/http/v1/middleware"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Pricing serves the order form engines
	Pricing *pricing.Service

	// Catalog holds the current product snapshot
	Catalog *catalog.Store

	// Pool is the catalog database, nil when the catalog comes from a file
	Pool *postgres.Pool

	// Mode is the gin mode (release, debug, test)
	Mode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "" {
		cfg.Mode = gin.ReleaseMode
	}
	gin.SetMode(cfg.Mode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Catalog, cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/v1")

	catalogHandler := handlers.NewCatalogHandler(cfg.Catalog)
	RegisterCatalogRoutes(api.Group("/catalog"), catalogHandler)

	pricingHandler := handlers.NewPricingHandler(cfg.Pricing)
	RegisterPricingRoutes(api.Group("/pricing/:kind"), pricingHandler)

	return router
}
