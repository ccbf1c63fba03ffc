package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"balcvetov/api/internal/cache"
	"balcvetov/api/internal/config"
	"balcvetov/api/internal/database"
	"balcvetov/api/internal/log"
	"balcvetov/api/internal/queue"
	"balcvetov/api/internal/repository"
	"balcvetov/api/internal/service"
	"balcvetov/api/internal/storage"
	"balcvetov/api/internal/tasks"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic(err)
	}

	logger := log.NewWithLevel(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Str("bucket", objectStore.Bucket()).Msg("ensure bucket failed")
	}

	processor := tasks.NewProcessor(
		logger,
		service.NewPricelistService(dbPool),
		repository.NewCustomerRepository(dbPool),
		objectStore,
	)
	consumer := queue.NewConsumer(client, queue.Options{
		Stream:        cfg.Redis.Stream,
		Group:         cfg.Redis.Group,
		Consumer:      cfg.Redis.Consumer,
		ClaimInterval: cfg.Queues.ClaimInterval,
		BatchSize:     cfg.Queues.BatchSize,
		Block:         cfg.Queues.Block,
	}, logger, processor)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
	}

	logger.Info().Msg("worker exited cleanly")
}
