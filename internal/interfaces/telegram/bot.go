// Package telegram 实现机器人交互面：命令、消息摄取、回调
package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"zaloupe/internal/application/indexing"
	"zaloupe/internal/application/search"
	"zaloupe/internal/domain/repository"
	"zaloupe/pkg/logger"
	"zaloupe/pkg/metrics"
)

var tracer = otel.Tracer("telegram")

// Bot 机器人调度器
type Bot struct {
	api      *tgbotapi.BotAPI
	chats    repository.ChatRepository
	users    repository.UserRepository
	stats    repository.StatsRepository
	tx       repository.TxManager
	ingestor *indexing.Ingestor
	searcher *search.Service

	pollTimeout int
	maxLen      int
}

// Options 机器人依赖与参数
type Options struct {
	Chats    repository.ChatRepository
	Users    repository.UserRepository
	Stats    repository.StatsRepository
	Tx       repository.TxManager
	Ingestor *indexing.Ingestor
	Searcher *search.Service

	// PollTimeout 长轮询超时（秒）
	PollTimeout int
	// MaxMessageLength 渲染结果的长度预算
	MaxMessageLength int
}

// NewBot 创建机器人调度器
func NewBot(api *tgbotapi.BotAPI, opts Options) *Bot {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = defaultMaxMessageLength
	}
	return &Bot{
		api:         api,
		chats:       opts.Chats,
		users:       opts.Users,
		stats:       opts.Stats,
		tx:          opts.Tx,
		ingestor:    opts.Ingestor,
		searcher:    opts.Searcher,
		pollTimeout: opts.PollTimeout,
		maxLen:      opts.MaxMessageLength,
	}
}

// Run 启动长轮询更新循环，直到 ctx 取消
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)
	logger.FromContext(ctx).Info("telegram update loop started",
		"bot", b.api.Self.UserName,
	)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch 按更新类型分发
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		metrics.TelegramUpdatesTotal.WithLabelValues("callback").Inc()
		b.handleCallback(b.updateContext(ctx, update.CallbackQuery.Message), update.CallbackQuery)
	case update.MyChatMember != nil:
		metrics.TelegramUpdatesTotal.WithLabelValues("chat_member").Inc()
		b.handleChatMemberUpdate(ctx, update.MyChatMember)
	case update.Message != nil && update.Message.IsCommand():
		metrics.TelegramUpdatesTotal.WithLabelValues("command").Inc()
		b.handleCommand(b.updateContext(ctx, update.Message), update.Message)
	case update.Message != nil:
		metrics.TelegramUpdatesTotal.WithLabelValues("message").Inc()
		b.handleMessage(b.updateContext(ctx, update.Message), update.Message)
	}
}

// updateContext 注入会话日志上下文
func (b *Bot) updateContext(ctx context.Context, msg *tgbotapi.Message) context.Context {
	if msg == nil || msg.Chat == nil {
		return ctx
	}
	ctx = logger.WithContext(ctx, logger.ChatIDKey, strconv.FormatInt(msg.Chat.ID, 10))
	if msg.From != nil {
		ctx = logger.WithContext(ctx, logger.UserIDKey, strconv.FormatInt(msg.From.ID, 10))
	}
	return ctx
}

// reply 发送纯文本回复
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.FromContext(ctx).Error("failed to send message", "error", err, "chat_id", chatID)
	}
}

// replyMarkup 发送带键盘的回复
func (b *Bot) replyMarkup(ctx context.Context, chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		logger.FromContext(ctx).Error("failed to send message", "error", err, "chat_id", chatID)
	}
}

// isAdmin 私聊里所有人都是管理员，群里查成员状态
func (b *Bot) isAdmin(ctx context.Context, chat *tgbotapi.Chat, userID int64) bool {
	if chat.IsPrivate() {
		return true
	}

	_, span := tracer.Start(ctx, "telegram.getChatMember",
		trace.WithAttributes(
			attribute.Int64("chat_id", chat.ID),
			attribute.Int64("user_id", userID),
		))
	defer span.End()

	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chat.ID,
			UserID: userID,
		},
	})
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn("failed to get chat member", "error", err)
		return false
	}

	return member.Status == "administrator" || member.Status == "creator"
}
