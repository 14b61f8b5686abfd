package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/entrepages/diary-api/internal/config"
	"github.com/entrepages/diary-api/internal/database"
	"github.com/entrepages/diary-api/internal/registry"
	"github.com/entrepages/diary-api/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.APIKey == "" {
		logger.Fatal("API_KEY must be set")
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	srv := server.New(cfg, db, logger)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	if cfg.Consul.Enabled {
		reg, err := registry.New(cfg.Consul, cfg.Port, logger)
		if err != nil {
			logger.Fatal("failed to create consul registration", zap.Error(err))
		}
		if err := reg.Register(); err != nil {
			logger.Fatal("failed to register in consul", zap.Error(err))
		}
		defer reg.Deregister()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("diary API listening", zap.String("port", cfg.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
