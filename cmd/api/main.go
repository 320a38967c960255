package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/api"
	"github.com/user/social-extractor/internal/browser"
	"github.com/user/social-extractor/internal/config"
	"github.com/user/social-extractor/internal/extractor"
	"github.com/user/social-extractor/internal/filemanager"
	"github.com/user/social-extractor/internal/monitoring"
	"github.com/user/social-extractor/internal/storage"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	ctx := context.Background()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pgStore.Close()

	redisStore := storage.NewRedisStore(cfg.RedisAddr)
	defer redisStore.Close()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	files, err := filemanager.New(cfg.FilesDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	runner := extractor.NewRunner(
		browser.Options{
			Headless:       cfg.Headless,
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.AcceptLanguage,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
			NavTimeout:     cfg.NavTimeout(),
		},
		extractor.Config{
			MaxImagesPerPlatform: cfg.MaxImagesPerPlatform,
			MinImagesPerPlatform: cfg.MinImagesPerPlatform,
			ScrollAttempts:       cfg.ScrollAttempts,
			ScrollDelay:          cfg.ScrollDelay(),
			RequestDelay:         cfg.RequestDelay(),
			SettleDelay:          cfg.SettleDelay(),
			FilesDir:             files.BaseDir(),
		},
		metrics,
		logger,
	)

	server := api.NewServer(cfg, runner, pgStore, redisStore, files, metrics, logger)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
