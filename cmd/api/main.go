package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetgraph/infrastructure/config"
	"meetgraph/infrastructure/di"
	"meetgraph/interfaces/http/rest"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	handler := rest.NewRouter(rest.RouterConfig{
		Feed:         container.FeedHandler,
		Profile:      container.ProfileHandler,
		Connections:  container.ConnectionHandler,
		Chat:         container.ChatHandler,
		Cache:        container.CacheHandler,
		Payment:      container.PaymentHandler,
		JWTValidator: container.JWTValidator,
		RateLimiter:  container.RateLimiter,
		Logger:       container.Logger,
		Metrics:      container.MetricsPublisher,
		EnableCORS:   cfg.EnableCORS,
	})

	if cfg.EnableMetrics {
		container.MetricsPublisher.StartCachePump(ctx, container.CacheEngine, time.Minute)
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Bool("cacheEnabled", cfg.CacheEnabled()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	container.Logger.Info("Server stopped")
}
