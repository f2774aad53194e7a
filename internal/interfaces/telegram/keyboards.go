package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func acceptKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kbAcceptLabel, callbackAccept),
		),
	)
}

func notationKeyboard(private bool) tgbotapi.InlineKeyboardMarkup {
	personal := kbRevokePersonalLabel
	if private {
		personal = kbDisabledLabel
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kbRevokeChatLabel, callbackRevokeChat),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(personal, callbackRevokePersonal),
		),
	)
}

func purgeChatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kbPurgeChatLabel, callbackPurgeChat),
		),
	)
}

func purgeMeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kbPurgeMeLabel, callbackPurgeMe),
		),
	)
}

// paginationKeyboard 翻页键盘：⬅️ | p/pages | ➡️
// 页码越界由回调侧钳制，按钮始终可点。
func paginationKeyboard(token string, page, pageSize, pages int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(kbPageBackLabel, pageCallbackData(token, pageSize, page-1)),
			tgbotapi.NewInlineKeyboardButtonData(msgPaginationLabel(page, pages), callbackNoop),
			tgbotapi.NewInlineKeyboardButtonData(kbPageNextLabel, pageCallbackData(token, pageSize, page+1)),
		),
	)
}

func pageCallbackData(token string, pageSize, page int) string {
	return fmt.Sprintf("pg:%s:%d:%d", token, pageSize, page)
}
