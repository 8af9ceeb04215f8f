package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"todo-api/backend/internal/config"
	"todo-api/backend/internal/database"
	"todo-api/backend/internal/logging"
	"todo-api/backend/internal/repositories"
	"todo-api/backend/internal/routes"
	"todo-api/backend/internal/services"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, !cfg.IsDevelopment())
	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 署名鍵が不正なら起動しない
	jwtService, err := services.NewJWTService(cfg.JWT)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)
	logger.Info("connected to database", "driver", cfg.DBDriver)

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	if err := services.NewUserService(repositories.NewUserRepository(db)).SeedUsers(ctx, cfg.Seed, logger); err != nil {
		return err
	}

	srv := newHTTPServer(cfg, routes.SetupRouter(routes.Dependencies{
		DB:         db,
		Config:     cfg,
		Logger:     logger,
		JWTService: jwtService,
	}))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	logger.Info("server exiting")
	return nil
}

func newHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}
}

func closeDB(db *sqlx.DB, logger *log.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database connection pool", "err", err)
		return
	}
	logger.Info("database connection pool closed")
}
