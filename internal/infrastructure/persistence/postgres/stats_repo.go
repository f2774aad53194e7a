package postgres

import (
	"context"
	"fmt"

	"zaloupe/internal/domain/entity"
)

// StatsRepository 统计仓储实现（事件日志上的计数查询）
type StatsRepository struct {
	client *Client
}

// NewStatsRepository 创建统计仓储
func NewStatsRepository(client *Client) *StatsRepository {
	return &StatsRepository{client: client}
}

// GetStats 获取全局/会话/用户三级消息与搜索计数
func (r *StatsRepository) GetStats(ctx context.Context, chatID, userID int64) (*entity.Stats, error) {
	ctx, span := tracer.Start(ctx, "postgres.StatsRepository.GetStats")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE event_type = 'index')                                              AS global_messages,
			COUNT(*) FILTER (WHERE event_type = 'search')                                             AS global_searches,
			COUNT(*) FILTER (WHERE event_type = 'index'  AND chat_id = $1)                            AS chat_messages,
			COUNT(*) FILTER (WHERE event_type = 'search' AND chat_id = $1)                            AS chat_searches,
			COUNT(*) FILTER (WHERE event_type = 'index'  AND chat_id = $1 AND user_id = $2)           AS user_messages,
			COUNT(*) FILTER (WHERE event_type = 'search' AND chat_id = $1 AND user_id = $2)           AS user_searches
		FROM events
	`

	var stats entity.Stats
	err := q.QueryRowContext(ctx, query, chatID, userID).Scan(
		&stats.Global.Messages, &stats.Global.Searches,
		&stats.Chat.Messages, &stats.Chat.Searches,
		&stats.User.Messages, &stats.User.Searches,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}
