// Package gateway 封装对远程生成式模型的两类调用：
// 自由文本对话（带历史与可选图片）与严格 JSON 的行情查询。
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"

	appmodel "github.com/techcoremm/techcore-ai/internal/model"
	"github.com/techcoremm/techcore-ai/pkg/log"
)

// Service AI 网关客户端
type Service struct {
	chatModel     model.ChatModel
	searchTool    tool.InvokableTool // 联网检索工具，可为 nil
	historyWindow int                // 发送给模型的历史轮数上限
	maxSources    int                // 引用条数上限
}

// NewService 创建网关客户端
func NewService(chatModel model.ChatModel, searchTool tool.InvokableTool, historyWindow, maxSources int) *Service {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	if maxSources <= 0 {
		maxSources = 5
	}
	return &Service{
		chatModel:     chatModel,
		searchTool:    searchTool,
		historyWindow: historyWindow,
		maxSources:    maxSources,
	}
}

// ConverseResult 一次对话调用的结果
type ConverseResult struct {
	Text    string
	Sources []appmodel.Source
}

// Converse 发送新一轮用户输入与有界历史，返回模型自由文本回复
// 传输失败或远端错误会向上传播，由调用方降级为会话内的通用失败消息
func (s *Service) Converse(ctx context.Context, message string, history []appmodel.ChatMessage, image string) (*ConverseResult, error) {
	if s.chatModel == nil {
		return nil, fmt.Errorf("chat model is not configured")
	}

	messages := make([]*schema.Message, 0, s.historyWindow+2)
	messages = append(messages, &schema.Message{
		Role:    schema.System,
		Content: systemInstruction,
	})

	// 历史截断到最近 N 轮，控制载荷与成本
	if len(history) > s.historyWindow {
		history = history[len(history)-s.historyWindow:]
	}
	for _, h := range history {
		role := schema.User
		if h.Role == appmodel.RoleModel {
			role = schema.Assistant
		}
		messages = append(messages, &schema.Message{Role: role, Content: h.Text})
	}

	messages = append(messages, newUserTurn(message, image))

	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to call chat model: %w", err)
	}

	text := resp.Content
	if strings.TrimSpace(text) == "" {
		text = emptyReplyFallback
	}

	// 引用是尽力而为的：检索失败不影响本轮回复
	sources := s.searchCitations(ctx, message)

	return &ConverseResult{Text: text, Sources: sources}, nil
}

// newUserTurn 构建新一轮用户消息，带图片时走多模态分段
func newUserTurn(message, image string) *schema.Message {
	if image == "" {
		return &schema.Message{Role: schema.User, Content: message}
	}

	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{
				Type: schema.ChatMessagePartTypeText,
				Text: message,
			},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      normalizeImageDataURL(image),
					MIMEType: "image/jpeg",
				},
			},
		},
	}
}

// normalizeImageDataURL 统一为 data URL 形式的内联图片
func normalizeImageDataURL(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

// textSearchResponse duckduckgo 文本检索的输出结构（宽松解析）
type textSearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Summary string `json:"summary"`
	} `json:"results"`
}

// searchCitations 用联网检索为本轮回复补充引用，失败时静默返回空
func (s *Service) searchCitations(ctx context.Context, query string) []appmodel.Source {
	if s.searchTool == nil || strings.TrimSpace(query) == "" {
		return nil
	}

	args, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil
	}

	out, err := s.searchTool.InvokableRun(ctx, string(args))
	if err != nil {
		log.Warnf("web search failed: %v", err)
		return nil
	}

	var resp textSearchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		log.Warnf("failed to decode web search results: %v", err)
		return nil
	}

	sources := make([]appmodel.Source, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		sources = append(sources, appmodel.Source{Title: r.Title, URI: r.URL})
		if len(sources) >= s.maxSources {
			break
		}
	}
	return sources
}

// QueryMarketPrices 行情查询：要求严格 JSON 回复并解析为条目列表
// 远端失败或 JSON 解析失败都降级为空列表，绝不向调用方抛错
func (s *Service) QueryMarketPrices(ctx context.Context, query string) []appmodel.MarketPriceEntry {
	if s.chatModel == nil {
		return []appmodel.MarketPriceEntry{}
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: marketSystemInstruction},
		{Role: schema.User, Content: fmt.Sprintf(marketQueryTemplate, query)},
	}

	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		log.Warnf("market price query failed: %v", err)
		return []appmodel.MarketPriceEntry{}
	}

	entries, err := decodeMarketJSON(resp.Content)
	if err != nil {
		log.Warnf("failed to decode market price reply: %v", err)
		return []appmodel.MarketPriceEntry{}
	}
	return entries
}

// decodeMarketJSON 从模型输出中恢复行情 JSON 数组
// 策略：快速路径（截取数组区域、剥离围栏）→ jsonrepair 强力修复
func decodeMarketJSON(content string) ([]appmodel.MarketPriceEntry, error) {
	s := strings.TrimSpace(content)
	if s == "" {
		return []appmodel.MarketPriceEntry{}, nil
	}

	// 移除常见的 LLM 生成伪影
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// 尝试截取 JSON 数组区域
	if i, j := strings.IndexByte(s, '['), strings.LastIndexByte(s, ']'); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var entries []appmodel.MarketPriceEntry
	if json.Valid([]byte(s)) {
		if err := json.Unmarshal([]byte(s), &entries); err != nil {
			return nil, fmt.Errorf("unexpected market reply shape: %w", err)
		}
		return entries, nil
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, fmt.Errorf("market reply is not valid JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
		return nil, fmt.Errorf("unexpected market reply shape: %w", err)
	}
	return entries, nil
}
