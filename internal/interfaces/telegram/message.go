package telegram

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zaloupe/internal/domain/entity"
	"zaloupe/pkg/logger"
)

// handleMessage 摄取入站文本消息
// 命令在 dispatch 阶段已分流，这里只处理普通文本；
// 同意门禁与入队在应用层完成，失败只记日志，不中断更新循环。
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	doc := buildIndexedMessage(msg)
	if err := b.ingestor.Ingest(ctx, doc); err != nil {
		logger.FromContext(ctx).Error("failed to ingest message",
			"error", err,
			"chat_id", msg.Chat.ID,
			"message_id", msg.MessageID,
		)
	}
}

// buildIndexedMessage 从 Telegram 消息构造索引文档
func buildIndexedMessage(msg *tgbotapi.Message) *entity.IndexedMessage {
	date := time.Unix(int64(msg.Date), 0).UTC()
	if msg.Date == 0 {
		date = time.Now().UTC()
	}

	doc := &entity.IndexedMessage{
		ChatID:      strconv.FormatInt(msg.Chat.ID, 10),
		MessageID:   int64(msg.MessageID),
		Date:        date,
		Text:        msg.Text,
		TextTrimmed: strings.TrimSpace(msg.Text),
		Lang:        "ru",
		ChatType:    entity.ChatType(msg.Chat.Type),
	}

	if msg.From != nil {
		doc.FromID = strconv.FormatInt(msg.From.ID, 10)
		doc.FromUsername = msg.From.UserName
	}

	if len(msg.Entities) > 0 {
		if raw, err := json.Marshal(msg.Entities); err == nil {
			doc.Entities = raw
		}
	}

	return doc
}
