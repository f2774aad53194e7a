package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/application/indexing"
	"zaloupe/internal/domain/entity"
)

type fakeChatRepo struct {
	chat      *entity.Chat
	acceptErr error
	accepted  []int64
}

func (f *fakeChatRepo) Get(ctx context.Context, chatID int64) (*entity.Chat, error) {
	if f.chat == nil {
		return nil, errors.New("unexpected Get")
	}
	return f.chat, nil
}

func (f *fakeChatRepo) Upsert(ctx context.Context, chat *entity.Chat) error { return nil }

func (f *fakeChatRepo) Accept(ctx context.Context, chatID int64) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	f.accepted = append(f.accepted, chatID)
	return nil
}

func (f *fakeChatRepo) Revoke(ctx context.Context, chatID int64) error { return nil }

type fakeUserRepo struct {
	upserted []*entity.User
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *entity.User) error {
	f.upserted = append(f.upserted, user)
	return nil
}

// fakeTxManager 记录进入事务的次数；fn 返回错误视为回滚
type fakeTxManager struct {
	calls      int
	rolledBack bool
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		f.rolledBack = true
		return err
	}
	return nil
}

type fakeProducer struct {
	enqueued []*entity.IndexedMessage
}

func (f *fakeProducer) EnqueueIndex(ctx context.Context, doc *entity.IndexedMessage) error {
	f.enqueued = append(f.enqueued, doc)
	return nil
}

func TestAcceptTerms_CommitsBothWritesInOneTransaction(t *testing.T) {
	chats := &fakeChatRepo{}
	users := &fakeUserRepo{}
	tx := &fakeTxManager{}
	bot := NewBot(nil, Options{Chats: chats, Users: users, Tx: tx})

	user := &entity.User{UserID: 42, Username: "ivan"}
	require.NoError(t, bot.acceptTerms(context.Background(), -100123, user))

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []int64{-100123}, chats.accepted)
	require.Len(t, users.upserted, 1)
	assert.Equal(t, int64(42), users.upserted[0].UserID)
}

func TestAcceptTerms_AcceptFailureRollsBackUserWrite(t *testing.T) {
	chats := &fakeChatRepo{acceptErr: errors.New("pg down")}
	users := &fakeUserRepo{}
	tx := &fakeTxManager{}
	bot := NewBot(nil, Options{Chats: chats, Users: users, Tx: tx})

	err := bot.acceptTerms(context.Background(), -100123, &entity.User{UserID: 42})
	require.Error(t, err)
	assert.True(t, tx.rolledBack)
	assert.Empty(t, users.upserted)
}

func consentedChat(chatID int64) *entity.Chat {
	now := time.Now()
	return &entity.Chat{ChatID: chatID, ChatType: entity.ChatTypeSupergroup, AcceptedAt: &now}
}

func inboundMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		Date:      1741953600,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: -100123, Type: "supergroup"},
		From:      &tgbotapi.User{ID: 42, UserName: "ivan"},
	}
}

func TestHandleMessage_IngestsPlainText(t *testing.T) {
	producer := &fakeProducer{}
	ingestor := indexing.NewIngestor(&fakeChatRepo{chat: consentedChat(-100123)}, producer)
	bot := NewBot(nil, Options{Ingestor: ingestor})

	bot.handleMessage(context.Background(), inboundMessage("привет всем"))
	require.Len(t, producer.enqueued, 1)
	assert.Equal(t, "-100123:7", producer.enqueued[0].DocumentID())
}

func TestHandleMessage_SkipsSlashPrefixedText(t *testing.T) {
	producer := &fakeProducer{}
	ingestor := indexing.NewIngestor(&fakeChatRepo{chat: consentedChat(-100123)}, producer)
	bot := NewBot(nil, Options{Ingestor: ingestor})

	// 无 bot_command entity 的斜杠文本也不索引
	bot.handleMessage(context.Background(), inboundMessage("/search без entity"))
	assert.Empty(t, producer.enqueued)
}
