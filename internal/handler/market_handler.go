package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/service"
)

// MarketHandler 行情处理器
type MarketHandler struct {
	svc *service.Services
}

// NewMarketHandler 创建行情处理器
func NewMarketHandler(svc *service.Services) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// SearchRequest 实时行情检索请求
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// GetPrices 静态行情快照，按类目过滤
// GET /api/v1/market/prices?category=
func (h *MarketHandler) GetPrices(c *gin.Context) {
	entries := h.svc.Market.List(c.Query("category"))
	Success(c, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// Search 实时行情检索
// 检索失败降级为空列表，本接口不返回 5xx
// POST /api/v1/market/search
func (h *MarketHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	entries := h.svc.Market.Search(c.Request.Context(), req.Query)
	Success(c, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}
