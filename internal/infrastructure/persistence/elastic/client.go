// Package elastic 提供 Elasticsearch 搜索存储实现
package elastic

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel"

	"zaloupe/internal/config"
)

var tracer = otel.Tracer("elastic")

// Client Elasticsearch 客户端
type Client struct {
	es     *elasticsearch.Client
	index  string
	config *config.ElasticConfig
}

// NewClient 创建 Elasticsearch 客户端
func NewClient(cfg *config.ElasticConfig) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Client{
		es:     es,
		index:  cfg.Index,
		config: cfg,
	}, nil
}

// Index 返回索引名
func (c *Client) Index() string {
	return c.index
}

// HealthCheck 健康检查
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "elastic.HealthCheck")
	defer span.End()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check failed: %s", res.Status())
	}
	return nil
}
