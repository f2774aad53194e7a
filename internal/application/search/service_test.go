package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	apperrors "zaloupe/pkg/errors"
)

// fakeStore 返回固定语料中按偏移切片的命中窗口
type fakeStore struct {
	docs    []*entity.IndexedMessage
	err     error
	queries []*entity.SearchQuery
}

func (f *fakeStore) Upsert(ctx context.Context, doc *entity.IndexedMessage) error { return nil }

func (f *fakeStore) Search(ctx context.Context, q *entity.SearchQuery) (*entity.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, q)

	total := int64(len(f.docs))
	start := q.Offset
	if start > len(f.docs) {
		start = len(f.docs)
	}
	end := start + q.Limit
	if end > len(f.docs) {
		end = len(f.docs)
	}

	hits := make([]*entity.SearchHit, 0, end-start)
	for _, doc := range f.docs[start:end] {
		hits = append(hits, &entity.SearchHit{ID: doc.DocumentID(), Doc: doc})
	}
	return &entity.SearchResult{Total: total, Hits: hits}, nil
}

type fakeTokens struct {
	sessions map[string]*entity.SearchSession
	next     int
	err      error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{sessions: make(map[string]*entity.SearchSession)}
}

func (f *fakeTokens) Create(ctx context.Context, session *entity.SearchSession) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.next++
	token := fmt.Sprintf("tok%d", f.next)
	f.sessions[token] = session
	return token, nil
}

func (f *fakeTokens) Read(ctx context.Context, token string) (*entity.SearchSession, error) {
	session, ok := f.sessions[token]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

type nopEvents struct{ err error }

func (n *nopEvents) Insert(ctx context.Context, event *entity.Event) error { return n.err }

func corpus(n int) []*entity.IndexedMessage {
	docs := make([]*entity.IndexedMessage, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, &entity.IndexedMessage{
			ChatID:    "-100123",
			MessageID: int64(i + 1),
			Text:      "привет",
		})
	}
	return docs
}

func TestExecute_EmptyQuery(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, newFakeTokens(), &nopEvents{}, 12)

	_, err := svc.Execute(context.Background(), -100123, 42, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmptyQuery))
	// 空查询不触达搜索存储
	assert.Empty(t, store.queries)
}

func TestExecute_NoResultsNoToken(t *testing.T) {
	tokens := newFakeTokens()
	svc := NewService(&fakeStore{}, tokens, &nopEvents{}, 12)

	page, err := svc.Execute(context.Background(), -100123, 42, "ничего")
	require.NoError(t, err)
	assert.False(t, page.HasResults())
	assert.Empty(t, page.Token)
	assert.Empty(t, tokens.sessions)
}

func TestExecute_FirstPage(t *testing.T) {
	tokens := newFakeTokens()
	svc := NewService(&fakeStore{docs: corpus(30)}, tokens, &nopEvents{}, 12)

	page, err := svc.Execute(context.Background(), -100123, 42, " привет ")
	require.NoError(t, err)
	assert.Equal(t, "привет", page.Query)
	assert.Equal(t, int64(30), page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Hits, 12)
	require.NotEmpty(t, page.Token)

	session := tokens.sessions[page.Token]
	require.NotNil(t, session)
	assert.Equal(t, int64(30), session.Total)
	assert.Equal(t, int64(-100123), session.ChatID)
}

func TestExecute_EventFailureIgnored(t *testing.T) {
	svc := NewService(&fakeStore{docs: corpus(3)}, newFakeTokens(), &nopEvents{err: errors.New("pg down")}, 12)

	page, err := svc.Execute(context.Background(), -100123, 42, "привет")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestExecute_SearchFailure(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("es down")}, newFakeTokens(), &nopEvents{}, 12)

	_, err := svc.Execute(context.Background(), -100123, 42, "привет")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSearchFailed))
}

func TestResolve_Walkthrough(t *testing.T) {
	store := &fakeStore{docs: corpus(30)}
	tokens := newFakeTokens()
	svc := NewService(store, tokens, &nopEvents{}, 12)

	first, err := svc.Execute(context.Background(), -100123, 42, "привет")
	require.NoError(t, err)

	// 第 2 页：12 条，偏移 12
	second, err := svc.Resolve(context.Background(), &PageRequest{Token: first.Token, PageSize: 12, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, 3, second.Pages)
	assert.Len(t, second.Hits, 12)
	assert.Equal(t, "-100123:13", second.Hits[0].ID)

	// 第 3 页：剩余 6 条
	third, err := svc.Resolve(context.Background(), &PageRequest{Token: first.Token, PageSize: 12, Page: 3})
	require.NoError(t, err)
	assert.Len(t, third.Hits, 6)
	assert.Equal(t, first.Token, third.Token)
}

func TestResolve_ClampsPage(t *testing.T) {
	store := &fakeStore{docs: corpus(30)}
	tokens := newFakeTokens()
	svc := NewService(store, tokens, &nopEvents{}, 12)

	first, err := svc.Execute(context.Background(), -100123, 42, "привет")
	require.NoError(t, err)

	below, err := svc.Resolve(context.Background(), &PageRequest{Token: first.Token, PageSize: 12, Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, below.Page)

	above, err := svc.Resolve(context.Background(), &PageRequest{Token: first.Token, PageSize: 12, Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, above.Page)
	assert.Len(t, above.Hits, 6)
}

func TestResolve_ExpiredToken(t *testing.T) {
	svc := NewService(&fakeStore{docs: corpus(30)}, newFakeTokens(), &nopEvents{}, 12)

	_, err := svc.Resolve(context.Background(), &PageRequest{Token: "gone", PageSize: 12, Page: 2})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 12))
	assert.Equal(t, 1, pageCount(1, 12))
	assert.Equal(t, 1, pageCount(12, 12))
	assert.Equal(t, 2, pageCount(13, 12))
	assert.Equal(t, 3, pageCount(30, 12))
}
