package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zaloupe/pkg/errors"
)

func TestParsePageCallback(t *testing.T) {
	req, err := parsePageCallback("pg:3cyfOatVo_-q:12:2")
	require.NoError(t, err)
	assert.Equal(t, "3cyfOatVo_-q", req.Token)
	assert.Equal(t, 12, req.PageSize)
	assert.Equal(t, 2, req.Page)
}

func TestParsePageCallback_Malformed(t *testing.T) {
	cases := []string{
		"",
		"noop",
		"pg:",
		"pg:tok:12",          // 缺页码
		"pg:tok:12:2",        // 令牌太短
		"pg:3cyfOatVo_-q:x:2",
		"pg:3cyfOatVo_-q:12:два",
		"pg:3cyfOatVo_-q:12:2:extra",
		"pg:какой-то токен:12:2",
	}

	for _, data := range cases {
		_, err := parsePageCallback(data)
		require.Error(t, err, "data=%q", data)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedCallback), "data=%q", data)
	}
}

func TestParsePageCallback_ZeroPageAccepted(t *testing.T) {
	// 第一页的「назад」会产生页码 0，由编排层钳制
	req, err := parsePageCallback("pg:3cyfOatVo_-q:12:0")
	require.NoError(t, err)
	assert.Equal(t, 0, req.Page)
}

func TestIsPageCallback(t *testing.T) {
	assert.True(t, isPageCallback("pg:abc:1:1"))
	assert.False(t, isPageCallback("accept_terms"))
	assert.False(t, isPageCallback("pg:"))
}

func TestPageCallbackData_Roundtrip(t *testing.T) {
	data := pageCallbackData("3cyfOatVo_-q", 12, 3)
	assert.Equal(t, "pg:3cyfOatVo_-q:12:3", data)

	req, err := parsePageCallback(data)
	require.NoError(t, err)
	assert.Equal(t, 3, req.Page)
}
