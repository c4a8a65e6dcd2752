package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/database"
	"github.com/Dan9191/finance-service/internal/handler"
	"github.com/Dan9191/finance-service/internal/integrations/forecast"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/Dan9191/finance-service/internal/store/memstore"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize storage
	var st store.Store
	if cfg.Store == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		st = memstore.New()
	} else {
		db, err := database.NewPostgres(cfg)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		repo := repository.NewRepository(db, cfg.StatementTimeout)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = repo.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		st = repo
	}

	// Initialize layers
	opts := []service.Option{service.WithForecaster(forecast.NewClient(cfg, logger))}
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.Warnf("Forecast cache disabled: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(forecast.NewRedisCache(redisClient)))
	}
	svc := service.NewService(st, logger, cfg, opts...)
	h := handler.NewHandler(svc, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited")
}
