package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/service"
)

// AnalyzerHandler 文件分析处理器
type AnalyzerHandler struct {
	svc *service.Services
}

// NewAnalyzerHandler 创建文件分析处理器
func NewAnalyzerHandler(svc *service.Services) *AnalyzerHandler {
	return &AnalyzerHandler{svc: svc}
}

// Analyze 上传日志/报告文件，提取文本后作为分析请求注入会话
// POST /api/v1/analyzer (multipart: file, session_id)
func (h *AnalyzerHandler) Analyze(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		BadRequest(c, "session_id is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalServerError(c, err.Error())
		return
	}
	defer file.Close()

	prompt, err := h.svc.Analyzer.ComposePrompt(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Conversation.Send(c.Request.Context(), sessionID, prompt, "")
	if err != nil {
		writeSendError(c, err)
		return
	}

	Success(c, result)
}
