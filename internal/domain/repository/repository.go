// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
)

// TxKey 事务在 context 中的键
type TxKey struct{}

// TxManager 事务管理接口
// fn 内通过 ctx 传递的事务执行，任一写入失败整体回滚。
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// 预定义的哨兵错误
var (
	// ErrChatNotFound 会话不存在
	ErrChatNotFound = errors.New("chat not found")

	// ErrSessionNotFound 分页令牌不存在或已过期
	ErrSessionNotFound = errors.New("search session not found")
)
