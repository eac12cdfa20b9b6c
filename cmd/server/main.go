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

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskpilot/internal/auth"
	"taskpilot/internal/cache"
	"taskpilot/internal/config"
	"taskpilot/internal/db"
	"taskpilot/internal/handler"
	"taskpilot/internal/logger"
	"taskpilot/internal/mail"
	"taskpilot/internal/repository"
	"taskpilot/internal/router"
	"taskpilot/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Task Pilot API
// @version 1.0
// @description Task manager API with email OTP registration, password reset, categories and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
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

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		zapLogger.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB, zapLogger)
	}
	if err := db.Migrate(gormDB); err != nil {
		zapLogger.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zapLogger.Fatal("redis init", zap.Error(err))
	}
	cancelPing()

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			Timeout:  cfg.SMTPTimeout,
		})
	} else {
		zapLogger.Warn("SMTP_HOST not set, OTP emails will be logged instead of sent")
		mailer = mail.NewLogMailer(zapLogger)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	otpStore := auth.NewOTPStore(cacheClient, cfg.OTPTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, otpStore, mailer, zapLogger)
	userService := service.NewUserService(userRepo, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient, zapLogger)
	taskService := service.NewTaskService(taskRepo, categoryRepo)
	seedService := service.NewSeedService(userRepo, categoryRepo, cacheClient, zapLogger)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, zapLogger, jwtService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Category: handler.NewCategoryHandler(categoryService),
		Task:     handler.NewTaskHandler(taskService),
		Seed: handler.NewSeedHandler(seedService, service.SeedCommand{
			Name:       cfg.SeedName,
			Email:      cfg.SeedEmail,
			Password:   cfg.SeedPassword,
			Categories: service.DefaultSeedCategories,
		}),
	})

	addr := ":" + cfg.ServerPort
	go func() {
		zapLogger.Info("server starting",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+swaggerHost(cfg, addr)+"/swagger/index.html"),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown", zap.Error(err))
	}
}

func swaggerHost(cfg *config.Config, addr string) string {
	if cfg.SwaggerHost != "" {
		return cfg.SwaggerHost
	}
	return "localhost" + addr
}
