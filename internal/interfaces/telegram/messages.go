package telegram

import (
	"fmt"

	"zaloupe/internal/domain/entity"
)

// 面向用户的文案（俄语）
const (
	msgStartPrivate = "Привет! Я индексирую сообщения и ищу по ним.\n" +
		"Чтобы включить индексацию, примите условия соглашения."
	msgStartGroup = "Привет! Я индексирую сообщения группы и ищу по ним.\n" +
		"Администратор должен принять условия соглашения, чтобы включить индексацию."

	msgNotation = "Соглашение об индексации действует. Сообщения чата индексируются " +
		"для полнотекстового поиска. Вы можете расторгнуть соглашение в любой момент."

	msgAcceptedPrivate = "Соглашение принято. Сообщения теперь индексируются."
	msgAcceptedGroup   = "Соглашение принято. Сообщения группы теперь индексируются."
	msgRejected        = "Только администратор может управлять соглашением."

	msgRevokeChatOK = "Соглашение расторгнуто. Новые сообщения не индексируются."
	msgRevokeMeOK   = "Персональное соглашение расторгнуто."
	msgPurgeQueued  = "Запрос на удаление поставлен в очередь."

	msgSearchUsage  = "Использование: /search <запрос>"
	msgSearchFailed = "Произошла ошибка при поиске. Попробуйте позже."
	msgSessionGone  = "Сессия поиска истекла. Выполните поиск заново."
	msgBadCallback  = "Некорректный запрос."
	msgStatsFailed  = "❌ Ошибка при получении статистики"
)

// 按钮文案
const (
	kbAcceptLabel         = "Принять условия"
	kbRevokeChatLabel     = "Расторгнуть соглашение"
	kbRevokePersonalLabel = "Расторгнуть персональное"
	kbPurgeChatLabel      = "Удалить все сообщения группы"
	kbPurgeMeLabel        = "Удалить мои сообщения"
	kbDisabledLabel       = "—"
	kbPageBackLabel       = "⬅️"
	kbPageNextLabel       = "➡️"
)

func msgSearchHeader(query string, total int64) string {
	return fmt.Sprintf("Результаты по запросу «%s» — %d", query, total)
}

func msgSearchNoResults(query string) string {
	return fmt.Sprintf("По запросу «%s» ничего не найдено.", query)
}

func msgPaginationLabel(page, pages int) string {
	return fmt.Sprintf("%d/%d", page, pages)
}

func msgStats(stats *entity.Stats) string {
	return fmt.Sprintf(
		"*Статистика*\n\n"+
			"Всего: %d сообщений, %d поисков\n"+
			"В этом чате: %d сообщений, %d поисков\n"+
			"Ваши: %d сообщений, %d поисков",
		stats.Global.Messages, stats.Global.Searches,
		stats.Chat.Messages, stats.Chat.Searches,
		stats.User.Messages, stats.User.Searches,
	)
}
