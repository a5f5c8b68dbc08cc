package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"referearn_backend/internal/app/di"
	"referearn_backend/internal/app/router"
	"referearn_backend/internal/platform/config"
	"referearn_backend/internal/platform/db"
	"referearn_backend/internal/platform/logging"
	infraredis "referearn_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		zap.L().Fatal("database unavailable", zap.Error(err))
	}
	sqlDB, _ := gdb.DB()
	defer func() { _ = sqlDB.Close() }()

	if cfg.Database.RunMigrations {
		if err := di.Migrate(ctx, gdb); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
		zap.L().Info("migrations applied")
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Host == "" {
		zap.L().Info("REDIS_HOST not set, sessions stored in database and catalog uncached")
	} else if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password); err != nil {
		zap.L().Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				zap.L().Error("failed to close Redis client", zap.Error(err))
			}
		}()
	}

	if cfg.Auth.JWTSecret == "" {
		zap.L().Warn("JWT_SECRET is not set; authenticated routes will fail. Set a strong secret.")
	}

	handlers, err := di.NewHandlers(cfg, gdb, rdb)
	if err != nil {
		zap.L().Fatal("wiring failed", zap.Error(err))
	}
	engine := router.NewRouter(router.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, handlers)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zap.L().Info("server starting", zap.String("addr", cfg.Server.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}
	zap.L().Info("server exited")
}
