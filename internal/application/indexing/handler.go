package indexing

import (
	"context"
	"strconv"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	"zaloupe/internal/infrastructure/messaging"
	apperrors "zaloupe/pkg/errors"
	"zaloupe/pkg/logger"
)

// Handler 索引任务处理器（worker 侧）
// 主效果是搜索存储写入，失败时返回错误交给队列重试；
// 分析事件是次效果，失败只记日志，不影响任务结果。
type Handler struct {
	store  repository.SearchStore
	events repository.EventRepository
}

// NewHandler 创建索引任务处理器
func NewHandler(store repository.SearchStore, events repository.EventRepository) *Handler {
	return &Handler{
		store:  store,
		events: events,
	}
}

// Handle 处理一条索引任务
func (h *Handler) Handle(ctx context.Context, msg *messaging.Message) error {
	var job messaging.IndexJobMessage
	if err := msg.UnmarshalPayload(&job); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidParam, "failed to decode index job")
	}
	if job.Doc == nil {
		return apperrors.New(apperrors.CodeInvalidParam, "index job has no document")
	}

	doc := job.Doc
	ctx = logger.WithContext(ctx, logger.ChatIDKey, doc.ChatID)
	ctx = logger.WithContext(ctx, logger.MessageIDKey, strconv.FormatInt(doc.MessageID, 10))

	// 按文档主键幂等写入，重复投递是整体覆盖
	if err := h.store.Upsert(ctx, doc); err != nil {
		return apperrors.Wrap(err, apperrors.CodeIndexFailed, "failed to upsert document")
	}

	h.recordEvent(ctx, doc)

	logger.FromContext(ctx).Info("message indexed",
		"document_id", doc.DocumentID(),
	)
	return nil
}

// recordEvent 尽力而为地写入分析事件
func (h *Handler) recordEvent(ctx context.Context, doc *entity.IndexedMessage) {
	chatID, err := strconv.ParseInt(doc.ChatID, 10, 64)
	if err != nil {
		return
	}

	event := entity.NewEvent(entity.EventTypeIndex, chatID).WithMessage(doc.MessageID)
	if doc.FromID != "" {
		if userID, parseErr := strconv.ParseInt(doc.FromID, 10, 64); parseErr == nil {
			event = event.WithUser(userID)
		}
	}

	if err := h.events.Insert(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to record index event",
			"error", err,
			"document_id", doc.DocumentID(),
		)
	}
}
