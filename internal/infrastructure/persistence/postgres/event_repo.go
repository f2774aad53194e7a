package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"zaloupe/internal/domain/entity"
)

// EventRepository 分析事件仓储实现
type EventRepository struct {
	client *Client
}

// NewEventRepository 创建事件仓储
func NewEventRepository(client *Client) *EventRepository {
	return &EventRepository{client: client}
}

// Insert 写入事件
func (r *EventRepository) Insert(ctx context.Context, event *entity.Event) error {
	ctx, span := tracer.Start(ctx, "postgres.EventRepository.Insert")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO events (id, event_type, chat_id, user_id, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var userID, messageID sql.NullInt64
	if event.UserID != nil {
		userID = sql.NullInt64{Int64: *event.UserID, Valid: true}
	}
	if event.MessageID != nil {
		messageID = sql.NullInt64{Int64: *event.MessageID, Valid: true}
	}

	if _, err := q.ExecContext(ctx, query,
		event.ID, event.EventType, event.ChatID, userID, messageID, event.CreatedAt,
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
