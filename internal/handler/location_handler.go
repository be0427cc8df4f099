package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/service"
	"github.com/techcoremm/techcore-ai/internal/service/location"
)

// LocationHandler 网点目录处理器
type LocationHandler struct {
	svc *service.Services
}

// NewLocationHandler 创建网点目录处理器
func NewLocationHandler(svc *service.Services) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// List 返回全部服务网点与官方主页
// GET /api/v1/locations
func (h *LocationHandler) List(c *gin.Context) {
	branches := h.svc.Location.Branches()
	Success(c, gin.H{
		"branches":     branches,
		"total":        len(branches),
		"facebook_url": location.FacebookURL,
	})
}
