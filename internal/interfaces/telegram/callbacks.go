package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zaloupe/internal/application/search"
	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	apperrors "zaloupe/pkg/errors"
	"zaloupe/pkg/logger"
)

// handleCallback 回调分发
// 无论处理结果如何都应答回调，避免客户端一直转圈。
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
		b.answerCallback(ctx, cb.ID, "", false)
		return
	}

	if isPageCallback(cb.Data) {
		b.onPageCallback(ctx, cb)
		return
	}

	chat := cb.Message.Chat
	defer b.answerCallback(ctx, cb.ID, "", false)

	switch cb.Data {
	case callbackAccept:
		b.onAccept(ctx, cb, chat)
	case callbackRevokeChat:
		b.onRevokeChat(ctx, cb, chat)
	case callbackRevokePersonal:
		if chat.IsPrivate() {
			return
		}
		b.replyMarkup(ctx, chat.ID, msgRevokeMeOK, purgeMeKeyboard())
	case callbackPurgeChat, callbackPurgeMe:
		// 实际删除流程在范围之外，仅确认受理
		b.reply(ctx, chat.ID, msgPurgeQueued)
	case callbackNoop:
	}
}

// onAccept 接受协议：群里要求管理员
func (b *Bot) onAccept(ctx context.Context, cb *tgbotapi.CallbackQuery, chat *tgbotapi.Chat) {
	row, err := b.chats.Get(ctx, chat.ID)
	if err != nil && !errors.Is(err, repository.ErrChatNotFound) {
		logger.FromContext(ctx).Error("failed to load chat", "error", err)
		return
	}
	if row != nil && row.AcceptedAt != nil {
		return
	}

	if !b.isAdmin(ctx, chat, cb.From.ID) {
		b.answerCallback(ctx, cb.ID, msgRejected, true)
		return
	}

	user := &entity.User{UserID: cb.From.ID, Username: cb.From.UserName}
	if err := b.acceptTerms(ctx, chat.ID, user); err != nil {
		logger.FromContext(ctx).Error("failed to accept terms", "error", err)
		return
	}

	text := msgAcceptedGroup
	if chat.IsPrivate() {
		text = msgAcceptedPrivate
	}
	b.reply(ctx, chat.ID, text)
}

// acceptTerms 接受协议的写入：同意标记与用户记录在同一事务中提交
func (b *Bot) acceptTerms(ctx context.Context, chatID int64, user *entity.User) error {
	return b.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := b.chats.Accept(txCtx, chatID); err != nil {
			return err
		}
		return b.users.Upsert(txCtx, user)
	})
}

// onRevokeChat 撤销协议：群里要求管理员
func (b *Bot) onRevokeChat(ctx context.Context, cb *tgbotapi.CallbackQuery, chat *tgbotapi.Chat) {
	if !b.isAdmin(ctx, chat, cb.From.ID) {
		b.answerCallback(ctx, cb.ID, msgRejected, true)
		return
	}

	if err := b.chats.Revoke(ctx, chat.ID); err != nil {
		logger.FromContext(ctx).Error("failed to revoke terms", "error", err)
		return
	}
	b.replyMarkup(ctx, chat.ID, msgRevokeChatOK, purgeChatKeyboard())
}

// onPageCallback 翻页：解析载荷、重查、原地编辑结果消息
func (b *Bot) onPageCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	req, err := parsePageCallback(cb.Data)
	if err != nil {
		logger.FromContext(ctx).Warn("malformed page callback", "data", cb.Data)
		b.answerCallback(ctx, cb.ID, msgBadCallback, true)
		return
	}

	page, err := b.searcher.Resolve(ctx, &search.PageRequest{
		Token:    req.Token,
		PageSize: req.PageSize,
		Page:     req.Page,
	})
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeSessionExpired) {
			b.answerCallback(ctx, cb.ID, msgSessionGone, true)
			return
		}
		logger.FromContext(ctx).Error("failed to resolve page", "error", err)
		b.answerCallback(ctx, cb.ID, msgSearchFailed, true)
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID,
		cb.Message.MessageID,
		renderPage(page, b.maxLen),
		paginationKeyboard(page.Token, page.Page, page.PageSize, page.Pages),
	)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(edit); err != nil {
		logger.FromContext(ctx).Error("failed to edit search results", "error", err)
	}

	b.answerCallback(ctx, cb.ID, "", false)
}

// answerCallback 应答回调查询
func (b *Bot) answerCallback(ctx context.Context, id, text string, alert bool) {
	cfg := tgbotapi.CallbackConfig{
		CallbackQueryID: id,
		Text:            text,
		ShowAlert:       alert,
	}
	if _, err := b.api.Request(cfg); err != nil {
		logger.FromContext(ctx).Warn("failed to answer callback query", "error", err)
	}
}
