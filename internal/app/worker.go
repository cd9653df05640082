package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/postgres"
	postrepo "github.com/heartmarshall/inkwell-backend/internal/adapter/postgres/post"
	"github.com/heartmarshall/inkwell-backend/internal/adapter/rabbitmq"
	"github.com/heartmarshall/inkwell-backend/internal/adapter/redis"
	"github.com/heartmarshall/inkwell-backend/internal/config"
	"github.com/heartmarshall/inkwell-backend/internal/domain"
	postsvc "github.com/heartmarshall/inkwell-backend/internal/service/post"
)

// RunWorker is the mutation worker entry point. It consumes the three command
// queues and applies mutations to storage, invalidating the cache before each
// acknowledgement. Blocks until ctx is cancelled.
func RunWorker(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting mutation worker",
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

	worker := postsvc.NewWorker(logger, postrepo.New(pool), cache)
	consumer := rabbitmq.NewConsumer(broker, logger)

	g, ctx := errgroup.WithContext(ctx)
	kinds := []domain.CommandKind{domain.CommandCreate, domain.CommandUpdate, domain.CommandDelete}
	for _, kind := range kinds {
		queue := rabbitmq.QueueName(kind)
		g.Go(func() error {
			return consumer.Run(ctx, queue, worker.Handle)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}
