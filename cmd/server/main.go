package main

import (
	"database/sql"
	"net/http"

	"byteshop-be/internal/cart"
	"byteshop-be/internal/config"
	"byteshop-be/internal/db"
	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"
	"byteshop-be/internal/market"
	"byteshop-be/internal/metrics"
	"byteshop-be/internal/middleware"
	"byteshop-be/internal/product"
	"byteshop-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Indirections so run() can be exercised without a real database or listener.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	logger.L().Info("server running", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, router)
}

func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	prober := image.NewProber(nil)
	cartMetrics := &metrics.CartMetrics{}

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo)
	cartHandler := cart.NewHandler(cartSvc, cartMetrics)

	marketRepo := market.NewRepository(database)
	marketSvc := market.NewService(marketRepo, image.NewProcessor(cfg.MarketUploadDir, prober))
	marketHandler := market.NewHandler(marketSvc)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo, marketRepo, image.NewProcessor(cfg.ProductUploadDir, prober))
	productHandler := product.NewHandler(productSvc)

	return setupRouter(cartMetrics, cartHandler, marketHandler, productHandler)
}

func setupRouter(
	cartMetrics *metrics.CartMetrics,
	cartHandler *cart.Handler,
	marketHandler *market.Handler,
	productHandler *product.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	// Identity must be attached before the limiter so authenticated
	// customers get per-customer buckets instead of sharing an IP bucket.
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "OK",
			"cart":   cartMetrics.Snapshot(),
		})
	})

	r.Route("/api/cart", cartHandler.Routes)
	r.Route("/api/markets", marketHandler.Routes)
	r.Route("/api/products", productHandler.Routes)

	uploadServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads")))
	r.Get("/uploads/*", uploadServer.ServeHTTP)

	return r
}
