// @title        Knowledge Base API
// @version      1.0
// @description  FAQ categories and answers with JWT authentication.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/api"
	"github.com/faqhub/knowledge-base/internal/api/handler"
	"github.com/faqhub/knowledge-base/internal/core/ports"
	"github.com/faqhub/knowledge-base/internal/core/service"
	"github.com/faqhub/knowledge-base/internal/infrastructure/config"
	mongorepo "github.com/faqhub/knowledge-base/internal/infrastructure/db/mongo"
	redisstore "github.com/faqhub/knowledge-base/internal/infrastructure/db/redis"
	"github.com/faqhub/knowledge-base/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(ctx, zerolog.New(os.Stderr).With().Timestamp().Logger())
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "knowledge-base",
	})

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	repos := mongorepo.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Services ---
	creds := service.NewCredentials(cfg.JWTSecret, cfg.JWTExpire)
	var throttle ports.LoginThrottle
	if cfg.Login.MaxAttempts > 0 {
		throttle = redisstore.NewLoginThrottle(rdb, cfg.Redis.KeyPrefix, cfg.Login.MaxAttempts, cfg.Login.Window)
	}

	router := api.NewRouter(api.Dependencies{
		Log:         log,
		Production:  cfg.IsProduction(),
		BodyLimit:   cfg.BodyLimit,
		CORSOrigins: cfg.CORSOrigins,
		Resolver:    service.NewIdentityResolver(creds, repos.Accounts, log),
		Auth:        service.NewAuthService(repos.Accounts, creds, throttle, log),
		Accounts:    service.NewAccountService(repos.Accounts, creds, log),
		Categories:  service.NewCategoryService(repos.Categories, log),
		Answers:     service.NewAnswerService(repos.Answers, repos.Categories, log),
		HealthChecks: map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErrors:
		log.Error().Err(err).Msg("http server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("http server stopped")
}
