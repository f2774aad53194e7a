package indexing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	"zaloupe/internal/infrastructure/messaging"
	apperrors "zaloupe/pkg/errors"
)

type fakeChatRepo struct {
	chat *entity.Chat
	err  error
}

func (f *fakeChatRepo) Get(ctx context.Context, chatID int64) (*entity.Chat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chat, nil
}

func (f *fakeChatRepo) Upsert(ctx context.Context, chat *entity.Chat) error { return nil }
func (f *fakeChatRepo) Accept(ctx context.Context, chatID int64) error      { return nil }
func (f *fakeChatRepo) Revoke(ctx context.Context, chatID int64) error      { return nil }

type fakeProducer struct {
	enqueued []*entity.IndexedMessage
	err      error
}

func (f *fakeProducer) EnqueueIndex(ctx context.Context, doc *entity.IndexedMessage) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, doc)
	return nil
}

// fakeSearchStore 以文档 ID 为键，贴近真实索引的覆写语义
type fakeSearchStore struct {
	docs map[string]*entity.IndexedMessage
	err  error
}

func (f *fakeSearchStore) Upsert(ctx context.Context, doc *entity.IndexedMessage) error {
	if f.err != nil {
		return f.err
	}
	if f.docs == nil {
		f.docs = make(map[string]*entity.IndexedMessage)
	}
	f.docs[doc.DocumentID()] = doc
	return nil
}

func (f *fakeSearchStore) Search(ctx context.Context, q *entity.SearchQuery) (*entity.SearchResult, error) {
	return &entity.SearchResult{}, nil
}

type fakeEventRepo struct {
	inserted []*entity.Event
	err      error
}

func (f *fakeEventRepo) Insert(ctx context.Context, event *entity.Event) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, event)
	return nil
}

func consentedChat(chatID int64) *entity.Chat {
	now := time.Now()
	return &entity.Chat{
		ChatID:     chatID,
		ChatType:   entity.ChatTypeSupergroup,
		AcceptedAt: &now,
	}
}

func sampleDoc() *entity.IndexedMessage {
	return &entity.IndexedMessage{
		ChatID:    "-100123",
		MessageID: 7,
		FromID:    "42",
		Date:      time.Now(),
		Text:      "привет",
	}
}

func TestIngest_ConsentedChatEnqueues(t *testing.T) {
	producer := &fakeProducer{}
	ing := NewIngestor(&fakeChatRepo{chat: consentedChat(-100123)}, producer)

	require.NoError(t, ing.Ingest(context.Background(), sampleDoc()))
	require.Len(t, producer.enqueued, 1)
	assert.Equal(t, "-100123:7", producer.enqueued[0].DocumentID())
}

func TestIngest_NotConsentedSkips(t *testing.T) {
	now := time.Now()
	chat := consentedChat(-100123)
	chat.RevokedAt = &now

	producer := &fakeProducer{}
	ing := NewIngestor(&fakeChatRepo{chat: chat}, producer)

	require.NoError(t, ing.Ingest(context.Background(), sampleDoc()))
	assert.Empty(t, producer.enqueued)
}

func TestIngest_UnknownChatSkips(t *testing.T) {
	producer := &fakeProducer{}
	ing := NewIngestor(&fakeChatRepo{err: repository.ErrChatNotFound}, producer)

	require.NoError(t, ing.Ingest(context.Background(), sampleDoc()))
	assert.Empty(t, producer.enqueued)
}

func TestIngest_EnqueueFailurePropagates(t *testing.T) {
	producer := &fakeProducer{err: errors.New("stream down")}
	ing := NewIngestor(&fakeChatRepo{chat: consentedChat(-100123)}, producer)

	err := ing.Ingest(context.Background(), sampleDoc())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeQueueError))
}

func indexJob(t *testing.T, doc *entity.IndexedMessage) *messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage(doc.DocumentID(), messaging.MessageTypeIndex, doc.ChatID, &messaging.IndexJobMessage{Doc: doc})
	require.NoError(t, err)
	return msg
}

func TestHandle_UpsertsAndRecordsEvent(t *testing.T) {
	store := &fakeSearchStore{}
	events := &fakeEventRepo{}
	h := NewHandler(store, events)

	require.NoError(t, h.Handle(context.Background(), indexJob(t, sampleDoc())))
	require.Len(t, store.docs, 1)
	require.Len(t, events.inserted, 1)

	event := events.inserted[0]
	assert.Equal(t, entity.EventTypeIndex, event.EventType)
	assert.Equal(t, int64(-100123), event.ChatID)
	require.NotNil(t, event.MessageID)
	assert.Equal(t, int64(7), *event.MessageID)
	require.NotNil(t, event.UserID)
	assert.Equal(t, int64(42), *event.UserID)
}

func TestHandle_UpsertFailurePropagates(t *testing.T) {
	store := &fakeSearchStore{err: errors.New("es down")}
	h := NewHandler(store, &fakeEventRepo{})

	err := h.Handle(context.Background(), indexJob(t, sampleDoc()))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeIndexFailed))
}

func TestHandle_EventFailureDoesNotFailJob(t *testing.T) {
	store := &fakeSearchStore{}
	events := &fakeEventRepo{err: errors.New("pg down")}
	h := NewHandler(store, events)

	require.NoError(t, h.Handle(context.Background(), indexJob(t, sampleDoc())))
	require.Len(t, store.docs, 1)
}

// 重复投递同一条任务不会产生重复文档，后到的写入覆盖先到的
func TestHandle_RedeliveryIsIdempotent(t *testing.T) {
	store := &fakeSearchStore{}
	h := NewHandler(store, &fakeEventRepo{})

	first := sampleDoc()
	require.NoError(t, h.Handle(context.Background(), indexJob(t, first)))

	second := sampleDoc()
	second.Text = "привет (отредактировано)"
	require.NoError(t, h.Handle(context.Background(), indexJob(t, second)))

	require.Len(t, store.docs, 1)
	got, ok := store.docs["-100123:7"]
	require.True(t, ok)
	assert.Equal(t, "привет (отредактировано)", got.Text)
}

func TestHandle_EmptyJobRejected(t *testing.T) {
	msg, err := messaging.NewMessage("x", messaging.MessageTypeIndex, "-100123", &messaging.IndexJobMessage{})
	require.NoError(t, err)

	h := NewHandler(&fakeSearchStore{}, &fakeEventRepo{})
	assert.Error(t, h.Handle(context.Background(), msg))
}
