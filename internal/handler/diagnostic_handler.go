package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/model"
	"github.com/techcoremm/techcore-ai/internal/service"
	"github.com/techcoremm/techcore-ai/internal/service/conversation"
	"github.com/techcoremm/techcore-ai/internal/service/diagnostic"
)

// DiagnosticHandler 诊断处理器
type DiagnosticHandler struct {
	svc *service.Services
}

// NewDiagnosticHandler 创建诊断处理器
func NewDiagnosticHandler(svc *service.Services) *DiagnosticHandler {
	return &DiagnosticHandler{svc: svc}
}

// RunRequest 诊断中心提交请求
type RunRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Category  string `json:"category" binding:"required"`
	Symptoms  string `json:"symptoms"`
	Image     string `json:"image"` // base64 或 data URL，可选
}

// RecheckRequest 记录复检请求
type RecheckRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Run 诊断中心提交：按类目与症状构建诊断请求并走会话流程
// POST /api/v1/diagnostics/run
func (h *DiagnosticHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	prompt := diagnostic.ComposeRequest(model.ParseCategory(req.Category), req.Symptoms)

	result, err := h.svc.Conversation.Send(c.Request.Context(), req.SessionID, prompt, req.Image)
	if err != nil {
		writeSendError(c, err)
		return
	}

	Success(c, result)
}

// ListHistory 查询诊断历史（最新在前），query 为空返回全部
// GET /api/v1/diagnostics?query=
func (h *DiagnosticHandler) ListHistory(c *gin.Context) {
	records := h.svc.History.Filter(c.Query("query"))
	Success(c, gin.H{
		"records": records,
		"total":   len(records),
	})
}

// Recheck 把历史记录复制回会话做追问分析
// POST /api/v1/diagnostics/:id/recheck
func (h *DiagnosticHandler) Recheck(c *gin.Context) {
	var req RecheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	rec, ok := h.svc.History.Get(c.Param("id"))
	if !ok {
		NotFound(c, "diagnostic record not found")
		return
	}

	result, err := h.svc.Conversation.Recheck(c.Request.Context(), req.SessionID, rec)
	if err != nil {
		writeSendError(c, err)
		return
	}

	Success(c, result)
}

// writeSendError 将会话层错误映射为 HTTP 状态
func writeSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrEmptySubmit):
		BadRequest(c, err.Error())
	case errors.Is(err, conversation.ErrSessionNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, conversation.ErrBusy):
		Conflict(c, err.Error())
	default:
		InternalServerError(c, err.Error())
	}
}
