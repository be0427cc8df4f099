package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/service"
)

// ChatHandler 会话处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建会话处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"` // base64 或 data URL，可选
}

// CreateSession 创建会话
// POST /api/v1/chats
func (h *ChatHandler) CreateSession(c *gin.Context) {
	sess := h.svc.Conversation.CreateSession()

	messages, err := h.svc.Conversation.Messages(sess.ID)
	if err != nil {
		InternalServerError(c, err.Error())
		return
	}

	Created(c, gin.H{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt,
		"messages":   messages,
	})
}

// GetMessages 获取会话消息日志
// GET /api/v1/chats/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.svc.Conversation.Messages(c.Param("id"))
	if err != nil {
		NotFound(c, err.Error())
		return
	}

	Success(c, gin.H{"messages": messages})
}

// SendMessage 提交新一轮用户输入
// POST /api/v1/chats/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Conversation.Send(c.Request.Context(), c.Param("id"), req.Text, req.Image)
	if err != nil {
		writeSendError(c, err)
		return
	}

	Success(c, result)
}
