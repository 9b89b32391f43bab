package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/config"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/router"
	"github.com/taskhive-dev/taskhive/internal/tokens"
	"go.uber.org/zap"
)

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()

	if err := auth.Init(auth.Config{
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}); err != nil {
		logger.Fatal("auth init failed", zap.Error(err))
	}
	auth.InitTelegram(cfg.TelegramBotToken)

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.MigrateDatabase(); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	handlers.TokenStore = tokens.NewStore(rdb, cfg.RefreshTokenTTL)

	r := router.NewRouter()
	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
