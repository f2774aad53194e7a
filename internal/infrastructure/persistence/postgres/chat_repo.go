// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
)

// ChatRepository 会话仓储实现
type ChatRepository struct {
	client *Client
}

// NewChatRepository 创建会话仓储
func NewChatRepository(client *Client) *ChatRepository {
	return &ChatRepository{client: client}
}

// Get 获取会话
func (r *ChatRepository) Get(ctx context.Context, chatID int64) (*entity.Chat, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatRepository.Get")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT chat_id, chat_type, accepted_at, revoked_at
		FROM chats
		WHERE chat_id = $1
	`

	var chat entity.Chat
	var acceptedAt, revokedAt sql.NullTime
	err := q.QueryRowContext(ctx, query, chatID).Scan(
		&chat.ChatID, &chat.ChatType, &acceptedAt, &revokedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrChatNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	if acceptedAt.Valid {
		chat.AcceptedAt = &acceptedAt.Time
	}
	if revokedAt.Valid {
		chat.RevokedAt = &revokedAt.Time
	}
	return &chat, nil
}

// Upsert 创建或更新会话
func (r *ChatRepository) Upsert(ctx context.Context, chat *entity.Chat) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRepository.Upsert")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO chats (chat_id, chat_type, accepted_at, revoked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id)
		DO UPDATE SET chat_type = EXCLUDED.chat_type
	`

	var acceptedAt, revokedAt sql.NullTime
	if chat.AcceptedAt != nil {
		acceptedAt = sql.NullTime{Time: *chat.AcceptedAt, Valid: true}
	}
	if chat.RevokedAt != nil {
		revokedAt = sql.NullTime{Time: *chat.RevokedAt, Valid: true}
	}

	if _, err := q.ExecContext(ctx, query, chat.ChatID, chat.ChatType, acceptedAt, revokedAt); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert chat: %w", err)
	}
	return nil
}

// Accept 接受索引协议
func (r *ChatRepository) Accept(ctx context.Context, chatID int64) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRepository.Accept")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `UPDATE chats SET accepted_at = NOW(), revoked_at = NULL WHERE chat_id = $1`
	if _, err := q.ExecContext(ctx, query, chatID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to accept chat: %w", err)
	}
	return nil
}

// Revoke 撤销索引协议
func (r *ChatRepository) Revoke(ctx context.Context, chatID int64) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRepository.Revoke")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `UPDATE chats SET revoked_at = NOW() WHERE chat_id = $1`
	if _, err := q.ExecContext(ctx, query, chatID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to revoke chat: %w", err)
	}
	return nil
}
