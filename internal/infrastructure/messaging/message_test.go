package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/domain/entity"
)

func TestDefaultBackoff_Fixed(t *testing.T) {
	cfg := DefaultBackoffConfig()

	// 乘数为 1 时各次重试的退避时间保持不变
	for retry := 0; retry < 10; retry++ {
		assert.Equal(t, 2*time.Second, cfg.CalculateBackoff(retry))
	}
}

func TestCalculateBackoff_CappedAtMax(t *testing.T) {
	cfg := BackoffConfig{
		Initial:    time.Second,
		Max:        8 * time.Second,
		Multiplier: 2,
	}

	assert.Equal(t, time.Second, cfg.CalculateBackoff(0))
	assert.Equal(t, 2*time.Second, cfg.CalculateBackoff(1))
	assert.Equal(t, 4*time.Second, cfg.CalculateBackoff(2))
	assert.Equal(t, 8*time.Second, cfg.CalculateBackoff(3))
	assert.Equal(t, 8*time.Second, cfg.CalculateBackoff(7))
}

func TestIndexJobMessage_PayloadRoundtrip(t *testing.T) {
	doc := &entity.IndexedMessage{
		ChatID:       "-1001234567890",
		MessageID:    42,
		FromID:       "7",
		FromUsername: "ivan",
		Date:         time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Text:         "привет, как дела?",
		TextTrimmed:  "привет как дела",
		Lang:         "ru",
		ChatType:     entity.ChatTypeSupergroup,
	}

	msg, err := NewMessage(doc.DocumentID(), MessageTypeIndex, doc.ChatID, &IndexJobMessage{Doc: doc})
	require.NoError(t, err)
	msg.SetMetadata("idempotency_key", doc.DocumentID())

	assert.Equal(t, "-1001234567890:42", msg.ID)
	assert.Equal(t, "-1001234567890:42", msg.GetMetadata("idempotency_key"))

	var job IndexJobMessage
	require.NoError(t, msg.UnmarshalPayload(&job))
	require.NotNil(t, job.Doc)
	assert.Equal(t, doc.Text, job.Doc.Text)
	assert.Equal(t, doc.MessageID, job.Doc.MessageID)
	assert.True(t, doc.Date.Equal(job.Doc.Date))
}

func TestDLQStream(t *testing.T) {
	assert.Equal(t, "dlq:stream:index:messages", StreamIndexMessages.DLQStream())
}
