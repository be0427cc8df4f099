package model

import "time"

// 消息角色
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Source 模型回复附带的联网检索引用
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ChatMessage 一轮对话消息
// 创建后不可变，只会被追加到会话日志
type ChatMessage struct {
	Role      string    `json:"role"` // user, model
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"` // base64 图片数据（data URL）
	Timestamp time.Time `json:"timestamp"`
	Sources   []Source  `json:"sources,omitempty"` // 仅 model 消息携带
}
