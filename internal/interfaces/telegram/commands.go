package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"zaloupe/internal/application/search"
	"zaloupe/internal/domain/entity"
	apperrors "zaloupe/pkg/errors"
	"zaloupe/pkg/logger"
)

// handleCommand 命令分发
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.onStart(ctx, msg.Chat)
	case "notation":
		b.onNotation(ctx, msg.Chat)
	case "stats":
		b.onStats(ctx, msg)
	case "search":
		b.onSearch(ctx, msg)
	}
}

// onStart 注册会话：已接受协议的展示条款菜单，否则展示接受键盘
func (b *Bot) onStart(ctx context.Context, chat *tgbotapi.Chat) {
	err := b.chats.Upsert(ctx, &entity.Chat{
		ChatID:   chat.ID,
		ChatType: entity.ChatType(chat.Type),
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to upsert chat", "error", err)
		return
	}

	row, err := b.chats.Get(ctx, chat.ID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load chat", "error", err)
		return
	}

	if row.AcceptedAt != nil {
		b.onNotation(ctx, chat)
		return
	}

	text := msgStartGroup
	if chat.IsPrivate() {
		text = msgStartPrivate
	}
	b.replyMarkup(ctx, chat.ID, text, acceptKeyboard())
}

// onNotation 条款菜单
func (b *Bot) onNotation(ctx context.Context, chat *tgbotapi.Chat) {
	b.replyMarkup(ctx, chat.ID, msgNotation, notationKeyboard(chat.IsPrivate()))
}

// handleChatMemberUpdate 机器人被加入/移出会话时与 /start 同步处理
func (b *Bot) handleChatMemberUpdate(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) {
	b.onStart(ctx, &upd.Chat)
}

// onStats 全局/会话/用户三级统计
func (b *Bot) onStats(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	stats, err := b.stats.GetStats(ctx, msg.Chat.ID, msg.From.ID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load stats", "error", err)
		b.reply(ctx, msg.Chat.ID, msgStatsFailed)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, msgStats(stats))
	reply.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(reply); err != nil {
		logger.FromContext(ctx).Error("failed to send stats", "error", err)
	}
}

// onSearch 执行新搜索并发送第一页
func (b *Bot) onSearch(ctx context.Context, msg *tgbotapi.Message) {
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}

	page, err := b.searcher.Execute(ctx, msg.Chat.ID, userID, msg.CommandArguments())
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeEmptyQuery) {
			b.reply(ctx, msg.Chat.ID, msgSearchUsage)
			return
		}
		logger.FromContext(ctx).Error("search failed", "error", err)
		b.reply(ctx, msg.Chat.ID, msgSearchFailed)
		return
	}

	if !page.HasResults() {
		b.reply(ctx, msg.Chat.ID, msgSearchNoResults(page.Query))
		return
	}

	b.sendPage(ctx, msg.Chat.ID, page)
}

// sendPage 发送带翻页键盘的结果页
func (b *Bot) sendPage(ctx context.Context, chatID int64, page *search.Page) {
	reply := tgbotapi.NewMessage(chatID, renderPage(page, b.maxLen))
	reply.ParseMode = tgbotapi.ModeMarkdownV2
	reply.ReplyMarkup = paginationKeyboard(page.Token, page.Page, page.PageSize, page.Pages)
	if _, err := b.api.Send(reply); err != nil {
		logger.FromContext(ctx).Error("failed to send search results", "error", err)
	}
}
