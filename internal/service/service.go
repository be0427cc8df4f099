// Package service 组装各业务服务与 eino 组件。
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	duckduckgov2 "github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/techcoremm/techcore-ai/internal/config"
	"github.com/techcoremm/techcore-ai/internal/service/analyzer"
	"github.com/techcoremm/techcore-ai/internal/service/conversation"
	"github.com/techcoremm/techcore-ai/internal/service/diagnostic"
	"github.com/techcoremm/techcore-ai/internal/service/gateway"
	"github.com/techcoremm/techcore-ai/internal/service/location"
	"github.com/techcoremm/techcore-ai/internal/service/market"
	"github.com/techcoremm/techcore-ai/pkg/log"
)

// Services 服务集合
type Services struct {
	Gateway      *gateway.Service
	Conversation *conversation.Manager
	History      *diagnostic.History
	Market       *market.Service
	Analyzer     *analyzer.Service
	Location     *location.Service

	Config *config.Config
}

// NewServices 创建所有服务
// 参考 eino-examples，使用简单的 newXxx() 函数直接初始化 eino 组件
func NewServices(cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	chatModel, err := newChatModel(ctx, cfg)
	if err != nil {
		// 没有模型也能启动：对话会降级为会话内的固定失败消息
		log.Warnf("failed to create chat model: %v", err)
	}

	var searchTool einotool.InvokableTool
	if cfg.AI.Search.Enabled {
		searchTool = newWebSearchTool(ctx, cfg)
	}

	gw := gateway.NewService(chatModel, searchTool, cfg.Chat.HistoryWindow, cfg.AI.Search.MaxResults)
	history := diagnostic.NewHistory(cfg.Diagnostic.HistoryCap)

	return &Services{
		Gateway:      gw,
		Conversation: conversation.NewManager(gw, history),
		History:      history,
		Market:       market.NewService(gw, redisClient, time.Duration(cfg.Market.CacheTTL)*time.Second),
		Analyzer:     analyzer.NewService(cfg.Analyzer.MaxChars),
		Location:     location.NewService(),

		Config: cfg,
	}, nil
}

// newChatModel 创建 ChatModel
func newChatModel(ctx context.Context, cfg *config.Config) (model.ChatModel, error) {
	aiCfg := cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
	case "alibaba", "qwen", "dashscope":
		apiKey = aiCfg.Alibaba.AccessKeySecret
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
		modelName = aiCfg.Alibaba.Model
	case "deepseek":
		apiKey = aiCfg.DeepSeek.APIKey
		baseURL = aiCfg.DeepSeek.BaseURL
		modelName = aiCfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
	}

	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// newWebSearchTool 创建网络搜索工具
func newWebSearchTool(ctx context.Context, cfg *config.Config) einotool.InvokableTool {
	maxResults := cfg.AI.Search.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	searchTool, err := duckduckgov2.NewTextSearchTool(ctx, &duckduckgov2.Config{
		ToolName:   "web_search",
		ToolDesc:   "Search the web for current hardware prices and repair references using DuckDuckGo.",
		MaxResults: maxResults,
	})
	if err != nil {
		log.Warnf("failed to create web search tool: %v", err)
		return &stubTool{name: "web_search"}
	}

	return searchTool
}

// stubTool 占位工具
type stubTool struct {
	name string
}

func (t *stubTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.name,
		Desc: t.name + " (unavailable)",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "The query string",
				Required: true,
			},
		}),
	}, nil
}

func (t *stubTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	return fmt.Sprintf(`{"error":"%s is not available"}`, t.name), nil
}
