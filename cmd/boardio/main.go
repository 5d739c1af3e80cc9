// Package main is the entry point for the boardio server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardio/boardio/internal/common/config"
	"github.com/boardio/boardio/internal/common/httpmw"
	"github.com/boardio/boardio/internal/common/logger"
	"github.com/boardio/boardio/internal/events"
	"github.com/boardio/boardio/internal/store"
	"github.com/boardio/boardio/internal/tracing"
	"github.com/boardio/boardio/internal/transfer/handlers"
	"github.com/boardio/boardio/internal/transfer/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	log.Info("Starting boardio server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, storeCleanup, err := store.Provide(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer func() {
		if err := storeCleanup(); err != nil {
			log.Error("Store cleanup error", zap.Error(err))
		}
	}()

	providedBus, busCleanup, err := events.Provide(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize event bus", zap.Error(err))
	}
	defer func() {
		if err := busCleanup(); err != nil {
			log.Error("Event bus cleanup error", zap.Error(err))
		}
	}()

	transferService := service.NewService(st, providedBus.Bus, log)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(log, "boardio"))
	router.Use(httpmw.OtelTracing("boardio"))

	handlers.RegisterRoutes(router, transferService, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("HTTP server listening",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down boardio server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracing shutdown error", zap.Error(err))
	}

	log.Info("boardio server stopped")
}
