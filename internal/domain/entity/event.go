package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventType 分析事件类型
type EventType string

const (
	EventTypeIndex  EventType = "index"
	EventTypeSearch EventType = "search"
)

// Event 分析事件（写入关系型事件日志，尽力而为）
type Event struct {
	ID        string    `json:"id"`
	EventType EventType `json:"event_type"`
	ChatID    int64     `json:"chat_id"`
	UserID    *int64    `json:"user_id,omitempty"`
	MessageID *int64    `json:"message_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent 创建新事件
func NewEvent(eventType EventType, chatID int64) *Event {
	return &Event{
		ID:        uuid.NewString(),
		EventType: eventType,
		ChatID:    chatID,
		CreatedAt: time.Now(),
	}
}

// WithUser 关联用户
func (e *Event) WithUser(userID int64) *Event {
	e.UserID = &userID
	return e
}

// WithMessage 关联消息
func (e *Event) WithMessage(messageID int64) *Event {
	e.MessageID = &messageID
	return e
}

// StatsCounters 消息/搜索计数
type StatsCounters struct {
	Messages int64 `json:"messages"`
	Searches int64 `json:"searches"`
}

// Stats 全局/会话/用户三级统计
type Stats struct {
	Global StatsCounters `json:"global"`
	Chat   StatsCounters `json:"chat"`
	User   StatsCounters `json:"user"`
}
