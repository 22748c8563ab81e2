// Package main is the entry point for the order pricing API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"inventory/internal/domain/catalog"
	"inventory/internal/domain/pricing"
	v1 "inventory/internal/infrastructure/http/v1"
	"inventory/internal/infrastructure/storage/postgres"
	"inventory/internal/infrastructure/storage/postgres/catalog_repo"
	"inventory/pkg/logger"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting pricing server")

	// Amounts are emitted as JSON numbers; field values reach the engine as
	// json.Number, not float64.
	decimal.MarshalJSONWithoutQuotes = true
	binding.EnableDecoderUseNumber = true

	rateFormat, err := pricing.ParseRateFormat(getEnv("PERSISTED_TAX_RATE_FORMAT", string(pricing.RateFraction)))
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	pricingCfg := pricing.Config{
		DefaultCurrency:     getEnv("DEFAULT_CURRENCY", pricing.DefaultConfig().DefaultCurrency),
		PersistedRateFormat: rateFormat,
	}

	// --- Catalog source ---
	var (
		source catalog.Source
		pool   *postgres.Pool
	)
	switch {
	case os.Getenv("CATALOG_DATABASE_URL") != "":
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(os.Getenv("CATALOG_DATABASE_URL")))
		if err != nil {
			log.Fatalw("failed to connect to catalog database", "error", err)
		}
		defer pool.Close()
		postgres.LogPoolStats(ctx, pool)

		repoCfg := catalog_repo.DefaultProductRepoConfig()
		repoCfg.Table = getEnv("CATALOG_TABLE", repoCfg.Table)
		source = catalog_repo.NewProductRepo(pool, repoCfg)
		log.Infow("catalog source: database", "table", repoCfg.Table)
	case os.Getenv("CATALOG_FILE") != "":
		source = catalog.FileSource{Path: os.Getenv("CATALOG_FILE")}
		log.Infow("catalog source: file", "path", os.Getenv("CATALOG_FILE"))
	default:
		source = catalog.StaticSource{}
		log.Warn("no catalog source configured, product selection will not fill prices")
	}

	store := catalog.NewStore(source, getEnvDuration("CATALOG_REFRESH_TIMEOUT", 10*time.Second))
	if err := store.Refresh(ctx); err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	if interval := getEnvDuration("CATALOG_REFRESH_INTERVAL", 0); interval > 0 {
		go refreshLoop(logger.WithLogger(refreshCtx, log.WithComponent("catalog")), store, interval)
	}

	service := pricing.NewService(store, pricingCfg)

	log.Infow("pricing configured",
		"default_currency", pricingCfg.DefaultCurrency,
		"persisted_tax_rate_format", pricingCfg.PersistedRateFormat,
		"products", store.Snapshot().Len(),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:  log.WithComponent("http"),
		Pricing: service,
		Catalog: store,
		Pool:    pool,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func refreshLoop(ctx context.Context, store *catalog.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Refresh(ctx); err != nil {
				logger.Warn(ctx, "catalog refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
