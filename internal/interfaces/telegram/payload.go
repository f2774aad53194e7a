package telegram

import (
	"regexp"
	"strconv"

	apperrors "zaloupe/pkg/errors"
)

// 回调数据常量
const (
	callbackAccept         = "accept_terms"
	callbackRevokeChat     = "revoke_chat"
	callbackRevokePersonal = "revoke_personal"
	callbackPurgeChat      = "purge_chat"
	callbackPurgeMe        = "purge_me"
	callbackNoop           = "noop"
)

// 翻页回调载荷：pg:<token>:<size>:<page>
var pageCallbackRe = regexp.MustCompile(`^pg:([A-Za-z0-9_-]{8,20}):(\d+):(\d+)$`)

// PageCallback 解析后的翻页回调
type PageCallback struct {
	Token    string
	PageSize int
	Page     int
}

// parsePageCallback 解析翻页回调载荷
// 格式不符返回 ErrMalformedCallback，调用方据此回应用户而不是静默忽略。
func parsePageCallback(data string) (*PageCallback, error) {
	m := pageCallbackRe.FindStringSubmatch(data)
	if m == nil {
		return nil, apperrors.ErrMalformedCallback
	}

	size, err := strconv.Atoi(m[2])
	if err != nil || size <= 0 {
		return nil, apperrors.ErrMalformedCallback
	}
	page, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, apperrors.ErrMalformedCallback
	}

	return &PageCallback{
		Token:    m[1],
		PageSize: size,
		Page:     page,
	}, nil
}

// isPageCallback 判断是否为翻页回调
func isPageCallback(data string) bool {
	return len(data) > 3 && data[:3] == "pg:"
}
