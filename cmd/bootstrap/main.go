package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"zaloupe/internal/config"
	"zaloupe/internal/infrastructure/persistence/elastic"
	"zaloupe/internal/infrastructure/persistence/postgres"
)

// 幂等初始化：Postgres 表结构与 Elasticsearch 索引。
// 可以在每次部署前重复执行。
func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Postgres 表结构
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("failed to init postgres: %v", err)
	}
	defer func() { _ = pgClient.Close() }()

	fmt.Println("Ensuring postgres schema...")
	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure postgres schema: %v", err)
	}
	fmt.Println("Postgres schema is up to date.")

	// 3. Elasticsearch 索引与分析器
	esClient, err := elastic.NewClient(&cfg.Search.Elastic)
	if err != nil {
		log.Fatalf("failed to init elasticsearch: %v", err)
	}

	fmt.Printf("Ensuring elasticsearch index %q...\n", cfg.Search.Elastic.Index)
	if err := esClient.EnsureIndex(ctx); err != nil {
		log.Fatalf("failed to ensure elasticsearch index: %v", err)
	}
	fmt.Println("Elasticsearch index is up to date.")

	fmt.Println("Bootstrap completed successfully.")
}
