package telegram

import "strings"

// MarkdownV2 要求转义的全部保留字符
var mdV2Escaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// escapeMarkdownV2 转义 MarkdownV2 保留字符
func escapeMarkdownV2(s string) string {
	return mdV2Escaper.Replace(s)
}
