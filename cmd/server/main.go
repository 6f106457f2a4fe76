package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/config"
	"github.com/oksasatya/go-finance-tracker/internal/container"
	pginfra "github.com/oksasatya/go-finance-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-finance-tracker/internal/router"
	"github.com/oksasatya/go-finance-tracker/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StorageDriver == "postgres" {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
	}

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize application")
	}
	defer c.Close()
	logger.WithFields(logrus.Fields{
		"storage": cfg.StorageDriver,
		"kv":      cfg.KVDriver,
	}).Info("backends ready")

	// Postgres has no row TTL; the sweeper reclaims expired pending registrations.
	go c.Registration.RunSweeper(ctx, cfg.PendingSweepInterval, func(n int64) {
		middleware.PendingSwept.Add(n)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		os.Exit(1)
	}
	logger.Info("server exited properly")
}
