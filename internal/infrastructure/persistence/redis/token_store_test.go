package redis

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_URLSafe(t *testing.T) {
	// callback 载荷用冒号做分隔符，令牌本身不能含冒号或其他保留字符
	re := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	for i := 0; i < 100; i++ {
		token, err := generateToken()
		require.NoError(t, err)
		assert.Regexp(t, re, token)
		assert.Equal(t, 12, len(token))
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := generateToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "token collision: %s", token)
		seen[token] = true
	}
}
