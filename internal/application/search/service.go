// Package search 实现搜索编排与分页状态机
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
	apperrors "zaloupe/pkg/errors"
	"zaloupe/pkg/logger"
	"zaloupe/pkg/metrics"
)

const defaultPageSize = 12

// Page 一页搜索结果及驱动翻页控件所需的上下文
type Page struct {
	Query    string
	Token    string
	Total    int64
	Pages    int
	Page     int
	PageSize int
	Hits     []*entity.SearchHit
}

// HasResults 是否存在命中
func (p *Page) HasResults() bool {
	return p.Total > 0
}

// PageRequest 翻页请求（由回调载荷解析而来）
type PageRequest struct {
	Token    string
	PageSize int
	Page     int
}

// Service 搜索编排器
type Service struct {
	store    repository.SearchStore
	tokens   repository.TokenStore
	events   repository.EventRepository
	pageSize int
}

// NewService 创建搜索编排器
func NewService(store repository.SearchStore, tokens repository.TokenStore, events repository.EventRepository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		events:   events,
		pageSize: pageSize,
	}
}

// Execute 执行新搜索并返回第一页
// 空查询直接返回 ErrEmptyQuery，不触达搜索存储；
// 零命中返回终态页（无令牌，无翻页控件）。
func (s *Service) Execute(ctx context.Context, chatID, userID int64, rawQuery string) (*Page, error) {
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	start := time.Now()
	result, err := s.store.Search(ctx, &entity.SearchQuery{
		ChatID: chatID,
		Query:  query,
		Limit:  s.pageSize,
		Offset: 0,
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("query", "failed").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeSearchFailed, "search failed")
	}
	metrics.SearchRequestsTotal.WithLabelValues("query", "success").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	s.recordEvent(ctx, chatID, userID)

	page := &Page{
		Query:    query,
		Total:    result.Total,
		Page:     1,
		PageSize: s.pageSize,
		Hits:     result.Hits,
	}
	if result.Total == 0 {
		return page, nil
	}

	page.Pages = pageCount(result.Total, s.pageSize)

	// 总数随令牌保存，翻页时用它约束页码
	token, err := s.tokens.Create(ctx, &entity.SearchSession{
		Query:  query,
		ChatID: chatID,
		Total:  result.Total,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to create search session")
	}
	page.Token = token

	return page, nil
}

// Resolve 翻页：解析令牌、钳制页码、重新执行查询
// 令牌过期或不存在返回 ErrSessionExpired（可恢复，提示用户重新搜索）。
func (s *Service) Resolve(ctx context.Context, req *PageRequest) (*Page, error) {
	session, err := s.tokens.Read(ctx, req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to read search session")
	}

	size := req.PageSize
	if size <= 0 {
		size = s.pageSize
	}

	pages := pageCount(session.Total, size)
	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := time.Now()
	result, err := s.store.Search(ctx, &entity.SearchQuery{
		ChatID: session.ChatID,
		Query:  session.Query,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("page", "failed").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeSearchFailed, "search failed")
	}
	metrics.SearchRequestsTotal.WithLabelValues("page", "success").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	return &Page{
		Query:    session.Query,
		Token:    req.Token,
		Total:    session.Total,
		Pages:    pages,
		Page:     page,
		PageSize: size,
		Hits:     result.Hits,
	}, nil
}

// recordEvent 尽力而为地写入搜索事件
func (s *Service) recordEvent(ctx context.Context, chatID, userID int64) {
	event := entity.NewEvent(entity.EventTypeSearch, chatID)
	if userID != 0 {
		event = event.WithUser(userID)
	}
	if err := s.events.Insert(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to record search event",
			"error", err,
			"chat_id", chatID,
		)
	}
}

// pageCount 计算总页数，总数为 0 时返回 1
func pageCount(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return pages
}
