package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/cache"
	"taskpilot/internal/config"
	"taskpilot/internal/db"
	"taskpilot/internal/logger"
	"taskpilot/internal/repository"
	"taskpilot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("starting seed script")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional here; without it a running server may serve a
	// cached category list until it expires.
	var store cache.Store
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zapLogger.Warn("redis unavailable, category cache will not be invalidated", zap.Error(err))
	} else {
		store = cacheClient
	}
	cancelPing()

	seedService := service.NewSeedService(
		repository.NewUserRepository(gormDB),
		repository.NewCategoryRepository(gormDB),
		store,
		zapLogger,
	)

	result, err := seedService.SeedDemo(context.Background(), service.SeedCommand{
		Name:       cfg.SeedName,
		Email:      cfg.SeedEmail,
		Password:   cfg.SeedPassword,
		Categories: service.DefaultSeedCategories,
	})
	if err != nil {
		zapLogger.Fatal("failed to seed demo data", zap.Error(err))
	}

	zapLogger.Info("seed completed",
		zap.String("email", cfg.SeedEmail),
		zap.String("user_id", result.UserID),
		zap.Bool("user_created", result.UserCreated),
		zap.Int("categories_created", result.CategoriesCreated),
	)
}
