// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChatType 会话类型
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Chat 会话（索引同意状态的载体）
type Chat struct {
	ChatID     int64      `json:"chat_id"`
	ChatType   ChatType   `json:"chat_type"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// IsConsented 会话是否允许索引：已接受且未撤销
func (c *Chat) IsConsented() bool {
	return c != nil && c.AcceptedAt != nil && c.RevokedAt == nil
}

// IsPrivate 是否为私聊
func (c *Chat) IsPrivate() bool {
	return c != nil && c.ChatType == ChatTypePrivate
}
