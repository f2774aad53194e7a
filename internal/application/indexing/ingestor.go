// Package indexing 实现消息摄取与索引任务处理
package indexing

import (
	"context"
	"errors"
	"strconv"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	apperrors "zaloupe/pkg/errors"
	"zaloupe/pkg/logger"
)

// Ingestor 消息摄取入口：同意门禁 + 任务入队
// 索引本身在 worker 中异步完成，这里只负责发布任务。
type Ingestor struct {
	chats    repository.ChatRepository
	producer repository.JobProducer
}

// NewIngestor 创建消息摄取器
func NewIngestor(chats repository.ChatRepository, producer repository.JobProducer) *Ingestor {
	return &Ingestor{
		chats:    chats,
		producer: producer,
	}
}

// Ingest 摄取一条聊天消息
// 未接受协议或已撤销的会话直接跳过（返回 nil，不入队）；
// 入队失败向调用方传播。
func (i *Ingestor) Ingest(ctx context.Context, doc *entity.IndexedMessage) error {
	chatID, err := strconv.ParseInt(doc.ChatID, 10, 64)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidParam, "invalid chat id")
	}

	chat, err := i.chats.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			logger.FromContext(ctx).Debug("chat not registered, message skipped",
				"chat_id", doc.ChatID,
				"message_id", doc.MessageID,
			)
			return nil
		}
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load chat")
	}

	if !chat.IsConsented() {
		logger.FromContext(ctx).Debug("chat not consented, message skipped",
			"chat_id", doc.ChatID,
			"message_id", doc.MessageID,
		)
		return nil
	}

	if err := i.producer.EnqueueIndex(ctx, doc); err != nil {
		return apperrors.Wrap(err, apperrors.CodeQueueError, "failed to enqueue index job")
	}

	logger.FromContext(ctx).Debug("index job enqueued",
		"chat_id", doc.ChatID,
		"message_id", doc.MessageID,
	)
	return nil
}
