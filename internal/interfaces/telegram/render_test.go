package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/application/search"
	"zaloupe/internal/domain/entity"
)

func hit(username, text string) *entity.SearchHit {
	return &entity.SearchHit{
		Doc: &entity.IndexedMessage{
			FromUsername: username,
			Date:         time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
			Text:         text,
		},
	}
}

func TestRenderPage_Layout(t *testing.T) {
	page := &search.Page{
		Query: "привет",
		Total: 2,
		Hits: []*entity.SearchHit{
			hit("ivan", "привет всем"),
			hit("", "здравствуйте"),
		},
	}

	out := renderPage(page, 3500)

	assert.Contains(t, out, "Результаты по запросу «привет» — 2")
	assert.Contains(t, out, "_От @ivan 14\\.03\\.2025\\._")
	assert.Contains(t, out, "_От аноним 14\\.03\\.2025\\._")
	assert.Contains(t, out, ">привет всем||")
}

func TestRenderPage_MultilineBlockquote(t *testing.T) {
	page := &search.Page{
		Query: "q",
		Total: 1,
		Hits:  []*entity.SearchHit{hit("ivan", "первая\nвторая")},
	}

	out := renderPage(page, 3500)
	assert.Contains(t, out, ">первая\n>вторая||")
}

func TestRenderPage_DropsWholeBlocks(t *testing.T) {
	long := strings.Repeat("а", 400)
	page := &search.Page{
		Query: "q",
		Total: 5,
		Hits: []*entity.SearchHit{
			hit("a", long),
			hit("b", long),
			hit("c", long),
		},
	}

	full := renderPage(page, 10000)
	out := renderPage(page, 1000)

	require.Less(t, len([]rune(out)), len([]rune(full)))
	assert.LessOrEqual(t, len([]rune(out)), 1000)
	// 第一块保留完整，末尾的块整体丢弃
	assert.Contains(t, out, ">"+long+"||")
	assert.Equal(t, 2, strings.Count(out, "||"))
}

func TestRenderPage_HardTruncateFallback(t *testing.T) {
	page := &search.Page{
		Query: strings.Repeat("я", 300),
		Total: 1,
		Hits:  []*entity.SearchHit{hit("a", "текст")},
	}

	out := renderPage(page, 100)
	assert.Equal(t, 100, len([]rune(out)))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "a\\.b\\*c\\_d", escapeMarkdownV2("a.b*c_d"))
	assert.Equal(t, "\\>quote\\!", escapeMarkdownV2(">quote!"))
	assert.Equal(t, "привет", escapeMarkdownV2("привет"))
}
