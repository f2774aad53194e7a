// Package main 机器人服务入口
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"zaloupe/internal/application/indexing"
	"zaloupe/internal/application/search"
	"zaloupe/internal/config"
	"zaloupe/internal/infrastructure/messaging"
	"zaloupe/internal/infrastructure/persistence/elastic"
	"zaloupe/internal/infrastructure/persistence/postgres"
	"zaloupe/internal/infrastructure/persistence/redis"
	"zaloupe/internal/interfaces/http/handler"
	"zaloupe/internal/interfaces/http/router"
	"zaloupe/internal/interfaces/telegram"
	"zaloupe/pkg/logger"
	"zaloupe/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.FromContext(ctx)
	log.Info("starting bot",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 数据层
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

	txMgr := postgres.NewTxManager(pgClient)
	chatRepo := postgres.NewChatRepository(pgClient)
	userRepo := postgres.NewUserRepository(pgClient)
	eventRepo := postgres.NewEventRepository(pgClient)
	statsRepo := postgres.NewStatsRepository(pgClient)
	tokenStore := redis.NewTokenStore(redisClient, cfg.Search.TokenTTL)
	producer := messaging.NewProducer(redisClient.Redis(), cfg.Messaging.Stream.MaxLen)

	ingestor := indexing.NewIngestor(chatRepo, producer)
	searcher := search.NewService(esClient, tokenStore, eventRepo, cfg.Search.PageSize)

	// Telegram Bot
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal(ctx, "failed to init telegram bot api", err)
	}
	api.Debug = cfg.Telegram.Debug

	bot := telegram.NewBot(api, telegram.Options{
		Chats:            chatRepo,
		Users:            userRepo,
		Stats:            statsRepo,
		Tx:               txMgr,
		Ingestor:         ingestor,
		Searcher:         searcher,
		PollTimeout:      cfg.Telegram.PollTimeout,
		MaxMessageLength: cfg.Search.MaxMessageLength,
	})

	// 运维 HTTP 服务（健康检查与指标）
	healthHandler := handler.NewHealthHandler(pgClient, redisClient, esClient)
	r := router.New(cfg, healthHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := bot.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("bot exited with error", "error", err)
		os.Exit(1)
	}

	log.Info("bot exited")
}
