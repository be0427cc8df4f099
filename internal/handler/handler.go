// Package handler 提供 HTTP 接口层。
package handler

import (
	"github.com/techcoremm/techcore-ai/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Chat       *ChatHandler
	Diagnostic *DiagnosticHandler
	Market     *MarketHandler
	Analyzer   *AnalyzerHandler
	Location   *LocationHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Chat:       NewChatHandler(svc),
		Diagnostic: NewDiagnosticHandler(svc),
		Market:     NewMarketHandler(svc),
		Analyzer:   NewAnalyzerHandler(svc),
		Location:   NewLocationHandler(svc),
	}
}
