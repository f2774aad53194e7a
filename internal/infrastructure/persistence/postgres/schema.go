package postgres

import (
	"context"
	"fmt"

	"zaloupe/pkg/logger"
)

// schemaDDL 幂等建表语句，由 bootstrap 执行
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		chat_id     BIGINT PRIMARY KEY,
		chat_type   VARCHAR(20) NOT NULL,
		accepted_at TIMESTAMPTZ,
		revoked_at  TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id  BIGINT PRIMARY KEY,
		username VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id         UUID PRIMARY KEY,
		event_type VARCHAR(20) NOT NULL,
		chat_id    BIGINT NOT NULL,
		user_id    BIGINT,
		message_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_chat_type ON events (chat_id, event_type)`,
}

// EnsureSchema 幂等创建数据库表结构
func (c *Client) EnsureSchema(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.EnsureSchema")
	defer span.End()

	for _, ddl := range schemaDDL {
		if _, err := c.db.ExecContext(ctx, ddl); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	logger.Info(ctx, "postgres schema ensured")
	return nil
}
