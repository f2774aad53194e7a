package repository

import (
	"context"

	"zaloupe/internal/domain/entity"
)

// SearchStore 全文搜索存储接口
type SearchStore interface {
	// Upsert 按文档主键幂等写入，写入后立即可检索
	Upsert(ctx context.Context, doc *entity.IndexedMessage) error

	// Search 执行按会话过滤的相关度排序全文检索
	Search(ctx context.Context, q *entity.SearchQuery) (*entity.SearchResult, error)
}

// TokenStore 分页令牌存储接口
type TokenStore interface {
	// Create 生成随机令牌并以 TTL 保存查询上下文
	Create(ctx context.Context, session *entity.SearchSession) (string, error)

	// Read 解析令牌，过期或不存在时返回 ErrSessionNotFound
	Read(ctx context.Context, token string) (*entity.SearchSession, error)
}

// JobProducer 索引任务生产者接口
type JobProducer interface {
	// EnqueueIndex 发布索引任务，不等待索引完成
	EnqueueIndex(ctx context.Context, doc *entity.IndexedMessage) error
}
