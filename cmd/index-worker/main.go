// Package main 索引执行器入口（index-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"zaloupe/internal/application/indexing"
	"zaloupe/internal/config"
	"zaloupe/internal/infrastructure/messaging"
	"zaloupe/internal/infrastructure/persistence/elastic"
	"zaloupe/internal/infrastructure/persistence/postgres"
	"zaloupe/internal/infrastructure/persistence/redis"
	"zaloupe/pkg/logger"
	"zaloupe/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "index-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to init postgres", err)
	}
	defer func() { _ = pgClient.Close() }()

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", err)
	}
	defer func() { _ = redisClient.Close() }()

	esClient, err := elastic.NewClient(&cfg.Search.Elastic)
	if err != nil {
		logger.Fatal(ctx, "failed to init elasticsearch", err)
	}

	eventRepo := postgres.NewEventRepository(pgClient)
	jobHandler := indexing.NewHandler(esClient, eventRepo)

	consumer := messaging.NewConsumer(redisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamIndexMessages,
		Group:         messaging.ConsumerGroupIndexer,
		NamePrefix:    hostnameConsumerPrefix(),
		Concurrency:   cfg.Messaging.Stream.Concurrency,
		BlockTimeout:  cfg.Messaging.Stream.BlockTimeout,
		ClaimInterval: cfg.Messaging.Stream.ClaimInterval,
		RetryLimit:    cfg.Messaging.Stream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.Stream.RetryBackoff.Initial,
			Max:        cfg.Messaging.Stream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.Stream.RetryBackoff.Multiplier,
		},
	})
	consumer.RegisterHandler(messaging.MessageTypeIndex, jobHandler.Handle)

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	go consumer.MonitorDLQ(ctx, 0)

	log := logger.FromContext(ctx)
	log.Info("index-worker started",
		"stream", messaging.StreamIndexMessages,
		"concurrency", cfg.Messaging.Stream.Concurrency,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("index-worker shutting down")
	consumer.Stop()
}

func hostnameConsumerPrefix() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "indexer"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
