package repository

import (
	"context"

	"zaloupe/internal/domain/entity"
)

// ChatRepository 会话仓储接口（同意状态的唯一来源）
type ChatRepository interface {
	// Get 获取会话，不存在时返回 ErrChatNotFound
	Get(ctx context.Context, chatID int64) (*entity.Chat, error)

	// Upsert 创建或更新会话
	Upsert(ctx context.Context, chat *entity.Chat) error

	// Accept 接受索引协议，清除撤销标记
	Accept(ctx context.Context, chatID int64) error

	// Revoke 撤销索引协议
	Revoke(ctx context.Context, chatID int64) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// Upsert 创建或更新用户
	Upsert(ctx context.Context, user *entity.User) error
}
