package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// IndexedMessage 写入搜索存储的文档
// 文档主键为 "{chat_id}:{message_id}"，重复写入为整体覆盖，
// 因此同一条消息的任务可以安全地重复处理。
type IndexedMessage struct {
	ChatID       string          `json:"chat_id"`
	MessageID    int64           `json:"message_id"`
	FromID       string          `json:"from_id,omitempty"`
	FromUsername string          `json:"from_username,omitempty"`
	Date         time.Time       `json:"date"`
	Text         string          `json:"text"`
	TextTrimmed  string          `json:"text_trimmed"`
	Entities     json.RawMessage `json:"entities,omitempty"`
	Lang         string          `json:"lang,omitempty"`
	ChatType     ChatType        `json:"chat_type,omitempty"`
}

// DocumentID 搜索存储中的文档主键，同时是索引幂等键
func (m *IndexedMessage) DocumentID() string {
	return fmt.Sprintf("%s:%d", m.ChatID, m.MessageID)
}

// SearchQuery 搜索请求参数
type SearchQuery struct {
	ChatID int64
	Query  string
	Limit  int
	Offset int
}

// SearchHit 单条搜索命中
type SearchHit struct {
	ID        string          `json:"id"`
	Score     float64         `json:"score"`
	Doc       *IndexedMessage `json:"doc"`
	Highlight string          `json:"highlight,omitempty"`
}

// SearchResult 搜索结果：精确总数加按相关度降序排列的命中窗口
type SearchResult struct {
	Total int64        `json:"total"`
	Hits  []*SearchHit `json:"hits"`
}

// SearchSession 分页令牌背后的查询上下文
// total 随令牌一起保存，翻页时用它约束页码，而不是从已渲染文本里反解。
type SearchSession struct {
	Query  string `json:"query"`
	ChatID int64  `json:"chat_id"`
	Total  int64  `json:"total"`
}
