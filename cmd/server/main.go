package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pookiesms/pookiesms/internal/api"
	"github.com/pookiesms/pookiesms/internal/auth"
	"github.com/pookiesms/pookiesms/internal/cache"
	"github.com/pookiesms/pookiesms/internal/config"
	"github.com/pookiesms/pookiesms/internal/db"
	"github.com/pookiesms/pookiesms/internal/middleware"
	"github.com/pookiesms/pookiesms/internal/notify"
	"github.com/pookiesms/pookiesms/internal/observ"
	"github.com/pookiesms/pookiesms/internal/repository/postgres"
	"github.com/pookiesms/pookiesms/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline of its own; request contexts carry theirs.
	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Redis only backs the slug cache. If it is down the server still
	// works, every resolve just hits Postgres.
	var slugCache *cache.SlugCache
	if rdb, err := db.NewRedisClient(ctx, cfg.RedisURL); err != nil {
		logger.Warn("redis unavailable, slug cache disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		slugCache = cache.NewSlugCache(rdb, cfg.SlugCacheTTL, logger)
	}

	pool := database.Pool()
	principalRepo := postgres.NewPrincipalStore(pool)
	messageRepo := postgres.NewMessageStore(pool)

	hub := notify.NewHub(logger)

	svc := service.New(principalRepo, messageRepo, slugCache, hub, logger)

	identity := auth.NewTokenProvider(cfg.JWTSecret)

	linkHandler := api.NewLinkHandler(svc, logger)
	registerHandler := api.NewRegisterHandler(svc, logger)
	messageHandler := api.NewMessageHandler(svc, logger)
	wsHandler := api.NewWSHandler(hub, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public surface: health, link resolution, anonymous sending, and the
	// recipient's message listing.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.GET("/v1/links/:slug", linkHandler.Resolve)
	srv.POST("/v1/links/:slug/messages", messageHandler.Send)
	srv.GET("/v1/messages", messageHandler.List)

	// Routes that need a signed-in principal: registration and the live
	// dashboard socket.
	authed := srv.Group("/v1")
	authed.Use(middleware.AuthMiddleware(identity))
	authed.POST("/register", registerHandler.Register)
	authed.GET("/ws", wsHandler.Connect)

	logger.Info("starting pookiesms",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
