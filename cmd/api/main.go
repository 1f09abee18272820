package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"

	"shipquote-backend/config"
	"shipquote-backend/internal/delivery/http/middleware"
	v1 "shipquote-backend/internal/delivery/http/v1"
	"shipquote-backend/internal/infrastructure/cache"
	"shipquote-backend/internal/repository/postgres"
	"shipquote-backend/internal/usecase"
	"shipquote-backend/pkg/logger"
	"shipquote-backend/pkg/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Snapshot store + in-memory cache. The cache holds one immutable
	// configuration snapshot per merchant; the admin invalidation
	// endpoint drops it whenever the external CRUD system writes an
	// edit, and the TTL is a backstop against missed signals.
	snapshotRepo := postgres.NewShippingRepository(pgxPool, cfg.DefaultCubicDivisor)
	memCache := cache.NewMemoryCache(cfg.SnapshotCacheTTL, 2*cfg.SnapshotCacheTTL)

	// Quote Module
	quoteUC := usecase.NewQuoteUsecase(snapshotRepo, memCache, cfg.SnapshotCacheTTL)
	quoteHandler := v1.NewQuoteHandler(quoteUC, cfg.MaxQuoteItems)
	adminShippingHandler := v1.NewAdminShippingHandler(quoteUC)

	// Set up Router
	mux := http.NewServeMux()

	// Storefront (Public)
	mux.HandleFunc("POST /api/v1/shipping/quote", quoteHandler.GetQuotes)

	// Admin (Protected)
	adminMiddleware := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}
	mux.Handle("POST /api/v1/admin/shipping/preview", adminMiddleware(adminShippingHandler.PreviewQuotes))
	mux.Handle("POST /api/v1/admin/shipping/cache/invalidate", adminMiddleware(adminShippingHandler.InvalidateSnapshot))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	// Rate limiter with lifecycle management: cleanup every minute,
	// client TTL 3 minutes.
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitPerSecond),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS, Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
