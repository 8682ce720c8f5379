// Command server runs the App API.
//
// @title                       App API
// @version                     1.0
// @description                 User registration, login and product catalogue behind bearer token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ewersson/app-api/internal/api"
	"github.com/ewersson/app-api/internal/core/ports"
	"github.com/ewersson/app-api/internal/core/service"
	"github.com/ewersson/app-api/internal/infrastructure/db/memory"
	mongostore "github.com/ewersson/app-api/internal/infrastructure/db/mongo"
	redisstore "github.com/ewersson/app-api/internal/infrastructure/db/redis"
	"github.com/ewersson/app-api/internal/infrastructure/security"
	"github.com/ewersson/app-api/internal/pkg/config"
	"github.com/ewersson/app-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "app-api",
	})
	log := logger.Get()
	log.Info().Stringer("config", cfg).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	var (
		users    ports.UserRepository
		products ports.ProductRepository
		db       *mongo.Database
	)
	switch cfg.Storage {
	case config.StorageMemory:
		users, products = memory.NewUserStore(), memory.NewProductStore()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
	default:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		repos, err := mongostore.NewRepositories(ctx, database)
		if err != nil {
			log.Fatal().Err(err).Msg("mongo repositories")
		}
		users, products, db = repos.Users, repos.Products, database
	}

	var (
		rdb         *redis.Client
		idempotency ports.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	} else {
		log.Info().Msg("REDIS_ADDR empty, Idempotency-Key support disabled")
	}

	authService := service.NewAuthService(users, security.NewBcryptHasher(cfg.BcryptCost), tokens, component("auth"))
	productService := service.NewProductService(products, idempotency, component("products"))

	e := api.NewRouter(api.Deps{
		Auth:               authService,
		Products:           productService,
		Tokens:             tokens,
		Users:              users,
		Mongo:              db,
		Redis:              rdb,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             log,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown incomplete")
	}
	log.Info().Msg("stopped")
}

// component derives a named child of the process logger.
func component(name string) zerolog.Logger {
	return logger.Get().With().Str("component", name).Logger()
}
