// Package router 组装 HTTP 路由。
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/techcoremm/techcore-ai/internal/handler"
	"github.com/techcoremm/techcore-ai/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Chat 会话
		chats := v1.Group("/chats")
		{
			chats.POST("", h.Chat.CreateSession)
			chats.GET("/:id/messages", h.Chat.GetMessages)
			chats.POST("/:id/messages", h.Chat.SendMessage)
		}

		// Diagnostic 诊断
		diagnostics := v1.Group("/diagnostics")
		{
			diagnostics.POST("/run", h.Diagnostic.Run)
			diagnostics.GET("", h.Diagnostic.ListHistory)
			diagnostics.POST("/:id/recheck", h.Diagnostic.Recheck)
		}

		// Market 行情
		marketGroup := v1.Group("/market")
		{
			marketGroup.GET("/prices", h.Market.GetPrices)
			marketGroup.POST("/search", h.Market.Search)
		}

		// Analyzer 文件分析
		v1.POST("/analyzer", h.Analyzer.Analyze)

		// Location 服务网点
		v1.GET("/locations", h.Location.List)
	}

	return r
}
