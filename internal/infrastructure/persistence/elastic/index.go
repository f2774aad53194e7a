package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"zaloupe/pkg/logger"
)

// indexMapping 索引定义：俄语分析器（小写、停用词、词干）
// text 保留 term_vector 供高亮使用
const indexMapping = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "ru_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "russian_stop", "russian_stemmer"]
        }
      },
      "filter": {
        "russian_stop": {"type": "stop", "stopwords": "_russian_"},
        "russian_stemmer": {"type": "stemmer", "language": "russian"}
      }
    }
  },
  "mappings": {
    "properties": {
      "chat_id":      {"type": "keyword"},
      "message_id":   {"type": "long"},
      "from_id":      {"type": "keyword"},
      "from_username":{"type": "keyword"},
      "date":         {"type": "date"},
      "text":         {"type": "text", "analyzer": "ru_search", "term_vector": "with_positions_offsets"},
      "text_trimmed": {"type": "text", "analyzer": "ru_search"},
      "entities":     {"type": "nested"},
      "lang":         {"type": "keyword"},
      "chat_type":    {"type": "keyword"}
    }
  }
}`

// EnsureIndex 幂等创建索引，已存在视为成功
func (c *Client) EnsureIndex(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "elastic.EnsureIndex",
		trace.WithAttributes(attribute.String("index", c.index)))
	defer span.End()

	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		logger.Info(ctx, "elasticsearch index already exists", "index", c.index)
		return nil
	}

	createRes, err := c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		// 并发创建时以 already exists 结束也算成功
		if isAlreadyExists(createRes.Body) {
			logger.Info(ctx, "elasticsearch index already exists", "index", c.index)
			return nil
		}
		err := fmt.Errorf("failed to create index: %s", createRes.Status())
		span.RecordError(err)
		return err
	}

	logger.Info(ctx, "elasticsearch index created", "index", c.index)
	return nil
}

// isAlreadyExists 检查错误响应是否为 resource_already_exists_exception
func isAlreadyExists(body io.Reader) bool {
	var e struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		return false
	}
	return e.Error.Type == "resource_already_exists_exception"
}
