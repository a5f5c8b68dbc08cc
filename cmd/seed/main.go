package main

import (
	"context"
	"flag"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"referearn_backend/internal/app/di"
	courseusecase "referearn_backend/internal/feature/course/usecase"
	"referearn_backend/internal/platform/config"
	"referearn_backend/internal/platform/db"
	"referearn_backend/internal/platform/logging"
	infraredis "referearn_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	path := flag.String("file", cfg.Catalog.CoursesFile, "course catalog YAML file")
	migrate := flag.Bool("migrate", cfg.Database.RunMigrations, "run migrations before seeding")
	flag.Parse()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		zap.L().Fatal("database unavailable", zap.Error(err))
	}
	if *migrate {
		if err := di.Migrate(ctx, gdb); err != nil {
			zap.L().Fatal("migration failed", zap.Error(err))
		}
	}

	// The cache is invalidated through the decorator when Redis is reachable.
	var rdb *redisv9.Client
	if cfg.Redis.Host != "" {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password); err != nil {
			zap.L().Warn("Redis unavailable, cached catalog expires on its own", zap.Error(err))
		} else {
			rdb = tmp
			defer func() { _ = rdb.Close() }()
		}
	}

	uc := courseusecase.NewSeedUsecase(di.NewCourseRepository(rdb, gdb, cfg.Catalog.CacheTTL))
	n, err := uc.SeedFromFile(ctx, *path)
	if err != nil {
		zap.L().Fatal("seed failed", zap.String("file", *path), zap.Error(err))
	}
	zap.L().Info("seed ok", zap.String("file", *path), zap.Int("courses", n))
}
