package telegram

import (
	"strings"

	"zaloupe/internal/application/search"
	"zaloupe/internal/domain/entity"
)

const defaultMaxMessageLength = 3500

// renderPage 渲染一页搜索结果为 MarkdownV2 文本
// 超出长度预算时按块从尾部丢弃，绝不截断到块中间；
// 丢到只剩标题仍超限时才按符文硬截断兜底。
func renderPage(page *search.Page, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultMaxMessageLength
	}

	header := escapeMarkdownV2(msgSearchHeader(page.Query, page.Total))

	blocks := make([]string, 0, len(page.Hits))
	for _, hit := range page.Hits {
		blocks = append(blocks, renderHit(hit))
	}

	composed := compose(header, blocks)
	for len(blocks) > 0 && runeLen(composed) > maxLen {
		blocks = blocks[:len(blocks)-1]
		composed = compose(header, blocks)
	}

	if runeLen(composed) > maxLen {
		composed = string([]rune(composed)[:maxLen])
	}
	return composed
}

// renderHit 单条命中：斜体署名行 + 可展开引用正文
func renderHit(hit *entity.SearchHit) string {
	doc := hit.Doc

	username := "аноним"
	if doc != nil && doc.FromUsername != "" {
		username = "@" + doc.FromUsername
	}

	when := ""
	if doc != nil {
		when = doc.Date.Format("02.01.2006")
	}

	text := ""
	if doc != nil {
		text = doc.Text
	}

	attribution := "_" + escapeMarkdownV2("От "+username+" "+when+".") + "_"

	// 引用块的每一行都要带 > 前缀
	lines := strings.Split(escapeMarkdownV2(text), "\n")
	body := ">" + strings.Join(lines, "\n>") + "||"

	return attribution + "\n" + body
}

func compose(header string, blocks []string) string {
	if len(blocks) == 0 {
		return header
	}
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}

func runeLen(s string) int {
	return len([]rune(s))
}
