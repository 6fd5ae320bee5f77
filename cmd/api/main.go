package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code-review-api/config"
	"code-review-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, cleanup := config.InitLogging(cfg)
	defer cleanup()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}

	// Set Gin mode
	if cfg.GinMode == gin.ReleaseMode || (cfg.GinMode == "" && cfg.IsProduction()) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(routes.Deps{
		DB:             db,
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		JWTExpireHours: cfg.JWTExpireHours,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
