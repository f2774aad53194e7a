package repository

import (
	"context"

	"zaloupe/internal/domain/entity"
)

// EventRepository 分析事件仓储接口
type EventRepository interface {
	// Insert 写入事件
	Insert(ctx context.Context, event *entity.Event) error
}

// StatsRepository 统计仓储接口（基于事件日志的计数）
type StatsRepository interface {
	// GetStats 获取全局/会话/用户三级消息与搜索计数
	GetStats(ctx context.Context, chatID, userID int64) (*entity.Stats, error)
}
