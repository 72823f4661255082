package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-kasir-api/internal/repository"
	"go-kasir-api/internal/server"
	"go-kasir-api/internal/ws"
	"go-kasir-api/pkg/cache"
	"go-kasir-api/pkg/config"
	"go-kasir-api/pkg/database"
	"go-kasir-api/pkg/jwt"
	"go-kasir-api/pkg/logger"
	"go-kasir-api/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "kasir-api"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})
	if envErr != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Ping(db); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}
	if cfg.DB.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
		log.Info().Msg("database schema migrated")
	}

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("jwt setup failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	deps := server.Deps{
		Config: cfg,
		Log:    log,
		DB:     db,
		Tokens: tokens,
		Hub:    hub,
	}

	// 4. Optional Redis for login throttling
	var redisClient *cache.Client
	if cfg.Redis.Enabled() {
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
		} else {
			deps.Limiter = redisClient
		}
	}

	// 5. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewSales(registry)
	deps.Gatherer = registry

	app, err := server.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("server setup failed")
	}

	// 6. Graceful Shutdown
	go func() {
		addr := ":" + cfg.App.Port
		log.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("http server listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	cancel()

	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis")
		}
	}
	log.Info().Msg("server exited")
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*cache.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return cache.New(ctx, cfg)
}
