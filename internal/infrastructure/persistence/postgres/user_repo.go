package postgres

import (
	"context"
	"fmt"

	"zaloupe/internal/domain/entity"
)

// UserRepository 用户仓储实现
type UserRepository struct {
	client *Client
}

// NewUserRepository 创建用户仓储
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// Upsert 创建或更新用户
func (r *UserRepository) Upsert(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Upsert")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username
	`

	if _, err := q.ExecContext(ctx, query, user.UserID, user.Username); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
