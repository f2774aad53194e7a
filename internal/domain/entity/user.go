package entity

// User 接受过协议的用户
type User struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
}
