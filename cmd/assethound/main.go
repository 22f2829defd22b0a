package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/api"
	"github.com/HelicopterHelicopter/AssetHound/internal/cache"
	"github.com/HelicopterHelicopter/AssetHound/internal/config"
	"github.com/HelicopterHelicopter/AssetHound/internal/monitoring"
	"github.com/HelicopterHelicopter/AssetHound/internal/probe"
	"github.com/HelicopterHelicopter/AssetHound/internal/storage"
	"github.com/HelicopterHelicopter/AssetHound/internal/validator"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	pingers := make(map[string]api.Pinger)

	// Initialize Result Cache
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	var resultCache cache.ResultCache
	switch cfg.CacheBackend {
	case "redis":
		redisCache := cache.NewRedisCache(cfg.RedisAddr, ttl, logger)
		resultCache = redisCache
		pingers["redis"] = redisCache
	default:
		resultCache = cache.NewMemoryCache(ttl)
	}

	// Initialize optional outcome history store
	var recorder validator.Recorder
	var statusStore api.StatusStore
	var pgStore *storage.PostgresStore
	if cfg.PostgresURL != "" {
		pgStore, err = storage.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		recorder = pgStore
		statusStore = pgStore
		pingers["postgres"] = pgStore
	}

	// Initialize Monitoring
	metrics := monitoring.NewMetrics()

	// Initialize Core Validation Engine
	prober := probe.NewProber(time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond)
	urlValidator := validator.New(resultCache, prober, recorder, metrics, logger)
	coordinator := validator.NewCoordinator(urlValidator, cfg.MaxConcurrent, logger)

	// Periodic cache cleanup bounds memory between validation runs
	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				resultCache.Cleanup(context.Background())
			case <-stopCleanup:
				return
			}
		}
	}()

	// Initialize API Server
	server := api.NewServer(cfg, coordinator, statusStore, pingers, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coordinator.Cancel()
	close(stopCleanup)

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if pgStore != nil {
		pgStore.Close()
	}

	logger.Info("server exiting")
}
