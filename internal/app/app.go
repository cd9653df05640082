// Package app wires the API server: configuration, logger, adapters,
// services, and the HTTP transport. The mutation worker has its own
// entry point under cmd/worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/agent"
	"github.com/heartmarshall/inkwell-backend/internal/adapter/postgres"
	postrepo "github.com/heartmarshall/inkwell-backend/internal/adapter/postgres/post"
	reviewrepo "github.com/heartmarshall/inkwell-backend/internal/adapter/postgres/review"
	"github.com/heartmarshall/inkwell-backend/internal/adapter/rabbitmq"
	"github.com/heartmarshall/inkwell-backend/internal/adapter/redis"
	"github.com/heartmarshall/inkwell-backend/internal/auth"
	"github.com/heartmarshall/inkwell-backend/internal/config"
	postsvc "github.com/heartmarshall/inkwell-backend/internal/service/post"
	reviewsvc "github.com/heartmarshall/inkwell-backend/internal/service/review"
	"github.com/heartmarshall/inkwell-backend/internal/transport/middleware"
	"github.com/heartmarshall/inkwell-backend/internal/transport/rest"
)

// jwtValidator adapts JWTManager to the middleware's tokenValidator shape.
type jwtValidator struct {
	jwt *auth.JWTManager
}

func (v jwtValidator) ValidateToken(_ context.Context, token string) (uuid.UUID, string, error) {
	return v.jwt.ValidateAccessToken(token)
}

// Run is the API server entry point. It blocks until ctx is cancelled, then
// shuts the HTTP server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting api server",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	cache, err := redis.NewCache(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer cache.Close()

	broker := rabbitmq.NewClient(cfg.Broker, logger)
	defer broker.Close()

	if err := broker.DeclareTopology(cfg.Broker.Exchange); err != nil {
		return fmt.Errorf("declare broker topology: %w", err)
	}
	publisher := rabbitmq.NewPublisher(broker, cfg.Broker.Exchange)

	txm := postgres.NewTxManager(pool)
	postRepo := postrepo.New(pool)
	reviewRepo := reviewrepo.New(pool, txm)

	postService := postsvc.NewService(logger, postRepo, cache, publisher)

	generator := agent.NewClient(cfg.Agent)
	pipeline := reviewsvc.NewPipeline(logger, generator)
	reviewService := reviewsvc.NewService(logger, postService, reviewRepo, pipeline, postService)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	mux := rest.NewRouter(
		rest.NewHealthHandler(pool, cache, BuildVersion()),
		rest.NewPostHandler(postService, logger),
		rest.NewReviewHandler(reviewService, logger),
		limiter.Limit(cfg.RateLimit.ReviewPerMinute),
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtValidator{jwt: jwtManager}),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}
