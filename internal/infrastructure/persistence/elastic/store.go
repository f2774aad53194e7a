package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"zaloupe/internal/domain/entity"
	"zaloupe/pkg/logger"
)

// maxSearchLimit 单次检索窗口上限
const maxSearchLimit = 25

// Upsert 按文档主键写入，重复写入为整体覆盖
// refresh=wait_for 保证写入后立即可检索，消费侧依赖这一点做幂等重试。
func (c *Client) Upsert(ctx context.Context, doc *entity.IndexedMessage) error {
	docID := doc.DocumentID()

	ctx, span := tracer.Start(ctx, "elastic.Upsert",
		trace.WithAttributes(
			attribute.String("index", c.index),
			attribute.String("doc_id", docID),
		))
	defer span.End()

	payload, err := json.Marshal(doc)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := c.es.Index(c.index, bytes.NewReader(payload),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(docID),
		c.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, "elasticsearch upsert failed", err, "doc_id", docID)
		return fmt.Errorf("failed to index document %s: %w", docID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		err := fmt.Errorf("failed to index document %s: %s", docID, res.Status())
		span.RecordError(err)
		logger.Error(ctx, "elasticsearch upsert failed", err, "doc_id", docID)
		return err
	}

	logger.Debug(ctx, "document indexed", "doc_id", docID)
	return nil
}

// buildSearchBody 构建检索请求体
// must: 对 text（权重加倍）与 text_trimmed 的 AND 组合全文匹配，参与打分；
// filter: 精确限定会话，不影响打分。
func buildSearchBody(q *entity.SearchQuery) map[string]interface{} {
	limit := q.Limit
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	return map[string]interface{}{
		"size":             limit,
		"from":             offset,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"simple_query_string": map[string]interface{}{
							"query":            q.Query,
							"fields":           []string{"text^2", "text_trimmed"},
							"default_operator": "and",
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"chat_id": fmt.Sprintf("%d", q.ChatID),
						},
					},
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"text": map[string]interface{}{
					"type":                "unified",
					"fragment_size":       120,
					"number_of_fragments": 1,
					"pre_tags":            []string{""},
					"post_tags":           []string{""},
				},
			},
		},
	}
}

// searchResponse 检索响应体
type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string                `json:"_id"`
			Score     float64               `json:"_score"`
			Source    entity.IndexedMessage `json:"_source"`
			Highlight map[string][]string   `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search 执行按会话过滤的相关度排序全文检索
func (c *Client) Search(ctx context.Context, q *entity.SearchQuery) (*entity.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "elastic.Search",
		trace.WithAttributes(
			attribute.String("index", c.index),
			attribute.Int64("chat_id", q.ChatID),
			attribute.Int("limit", q.Limit),
			attribute.Int("offset", q.Offset),
		))
	defer span.End()

	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, "elasticsearch search failed", err, "chat_id", q.ChatID)
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		err := fmt.Errorf("failed to search: %s", res.Status())
		span.RecordError(err)
		logger.Error(ctx, "elasticsearch search failed", err, "chat_id", q.ChatID)
		return nil, err
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	result := &entity.SearchResult{
		Total: parsed.Hits.Total.Value,
		Hits:  make([]*entity.SearchHit, 0, len(parsed.Hits.Hits)),
	}
	for i := range parsed.Hits.Hits {
		h := &parsed.Hits.Hits[i]
		hit := &entity.SearchHit{
			ID:    h.ID,
			Score: h.Score,
			Doc:   &h.Source,
		}
		if frags := h.Highlight["text"]; len(frags) > 0 {
			hit.Highlight = frags[0]
		}
		result.Hits = append(result.Hits, hit)
	}

	logger.Info(ctx, "search executed", "chat_id", q.ChatID, "total", result.Total)
	return result, nil
}
