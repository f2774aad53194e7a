package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"zaloupe/internal/domain/entity"
	"zaloupe/internal/domain/repository"
)

// tokenKeyPrefix 分页令牌的键前缀
const tokenKeyPrefix = "search:q:"

// tokenBytes 令牌随机字节数，base64url 编码后约 12 个字符，
// 足够短以放进 callback 载荷，碰撞概率可以忽略。
const tokenBytes = 9

// TokenStore 分页令牌存储：令牌 -> 查询上下文，带 TTL
// 令牌只保存 {query, chat_id, total}，页码和页大小走 callback 载荷，
// 同一个令牌服务整个搜索会话的所有翻页。
type TokenStore struct {
	client *Client
	ttl    time.Duration
}

// NewTokenStore 创建分页令牌存储
func NewTokenStore(client *Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenStore{
		client: client,
		ttl:    ttl,
	}
}

// generateToken 生成 URL 安全的随机令牌
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create 生成令牌并保存查询上下文
func (s *TokenStore) Create(ctx context.Context, session *entity.SearchSession) (string, error) {
	ctx, span := tracer.Start(ctx, "redis.TokenStore.Create",
		trace.WithAttributes(attribute.Int64("chat_id", session.ChatID)))
	defer span.End()

	token, err := generateToken()
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.rdb.Set(ctx, tokenKeyPrefix+token, data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Read 解析令牌，过期或不存在时返回 ErrSessionNotFound
func (s *TokenStore) Read(ctx context.Context, token string) (*entity.SearchSession, error) {
	ctx, span := tracer.Start(ctx, "redis.TokenStore.Read")
	defer span.End()

	raw, err := s.client.rdb.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session entity.SearchSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}
