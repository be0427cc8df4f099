// Package gateway 提供网关单元测试
package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	appmodel "github.com/techcoremm/techcore-ai/internal/model"
)

// ========== Mock ChatModel ==========

type mockChatModel struct {
	response string
	err      error

	gotMessages []*schema.Message
}

func (m *mockChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.gotMessages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{
		Role:    schema.Assistant,
		Content: m.response,
	}, nil
}

func (m *mockChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func (m *mockChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

// ========== Mock 搜索工具 ==========

type mockSearchTool struct {
	output string
	err    error
}

func (t *mockSearchTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{Name: "web_search"}, nil
}

func (t *mockSearchTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

// ========== Converse 测试 ==========

func TestConverse_ReturnsModelText(t *testing.T) {
	cm := &mockChatModel{response: "The RTX 5090 FE leads the 2026 lineup."}
	s := NewService(cm, nil, 10, 5)

	result, err := s.Converse(context.Background(), "best GPU?", nil, "")
	if err != nil {
		t.Fatalf("Converse() error: %v", err)
	}
	if result.Text != cm.response {
		t.Errorf("unexpected text: %q", result.Text)
	}

	// 首条必须是系统人设
	if len(cm.gotMessages) < 2 || cm.gotMessages[0].Role != schema.System {
		t.Fatalf("system instruction not first: %+v", cm.gotMessages)
	}
	last := cm.gotMessages[len(cm.gotMessages)-1]
	if last.Role != schema.User || last.Content != "best GPU?" {
		t.Errorf("new user turn not last: %+v", last)
	}
}

func TestConverse_EmptyReplyFallsBack(t *testing.T) {
	s := NewService(&mockChatModel{response: "   "}, nil, 10, 5)

	result, err := s.Converse(context.Background(), "hello", nil, "")
	if err != nil {
		t.Fatalf("Converse() error: %v", err)
	}
	if result.Text != emptyReplyFallback {
		t.Errorf("expected fallback text, got %q", result.Text)
	}
}

func TestConverse_PropagatesModelError(t *testing.T) {
	s := NewService(&mockChatModel{err: errors.New("upstream 500")}, nil, 10, 5)

	if _, err := s.Converse(context.Background(), "hello", nil, ""); err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestConverse_NilModel(t *testing.T) {
	s := NewService(nil, nil, 10, 5)
	if _, err := s.Converse(context.Background(), "hello", nil, ""); err == nil {
		t.Fatal("expected error when model is not configured")
	}
}

func TestConverse_HistoryBoundedAndRoleMapped(t *testing.T) {
	cm := &mockChatModel{response: "ok"}
	s := NewService(cm, nil, 3, 5)

	history := []appmodel.ChatMessage{
		{Role: appmodel.RoleUser, Text: "q1"},
		{Role: appmodel.RoleModel, Text: "a1"},
		{Role: appmodel.RoleUser, Text: "q2"},
		{Role: appmodel.RoleModel, Text: "a2"},
	}

	if _, err := s.Converse(context.Background(), "q3", history, ""); err != nil {
		t.Fatalf("Converse() error: %v", err)
	}

	// 系统 + 3 条历史 + 新一轮
	if len(cm.gotMessages) != 5 {
		t.Fatalf("unexpected message count: %d", len(cm.gotMessages))
	}
	// 截断保留最近的历史
	if cm.gotMessages[1].Content != "a1" {
		t.Errorf("history not truncated to most recent: %q", cm.gotMessages[1].Content)
	}
	if cm.gotMessages[2].Role != schema.User || cm.gotMessages[3].Role != schema.Assistant {
		t.Errorf("history roles not mapped: %v, %v", cm.gotMessages[2].Role, cm.gotMessages[3].Role)
	}
}

func TestConverse_ImageBuildsMultiContent(t *testing.T) {
	cm := &mockChatModel{response: "corrosion visible near C7040"}
	s := NewService(cm, nil, 10, 5)

	if _, err := s.Converse(context.Background(), "what is wrong here?", nil, "aGVsbG8="); err != nil {
		t.Fatalf("Converse() error: %v", err)
	}

	last := cm.gotMessages[len(cm.gotMessages)-1]
	if len(last.MultiContent) != 2 {
		t.Fatalf("expected text+image parts, got %d", len(last.MultiContent))
	}
	if last.MultiContent[0].Type != schema.ChatMessagePartTypeText {
		t.Errorf("first part should be text: %v", last.MultiContent[0].Type)
	}
	img := last.MultiContent[1]
	if img.Type != schema.ChatMessagePartTypeImageURL || img.ImageURL == nil {
		t.Fatalf("second part should be image: %+v", img)
	}
	if !strings.HasPrefix(img.ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("raw base64 not normalized to data URL: %q", img.ImageURL.URL)
	}
}

func TestConverse_DataURLPassedThrough(t *testing.T) {
	if got := normalizeImageDataURL("data:image/png;base64,xyz"); got != "data:image/png;base64,xyz" {
		t.Errorf("data URL should pass through unchanged: %q", got)
	}
}

// ========== 引用检索测试 ==========

func TestConverse_SearchCitations(t *testing.T) {
	cm := &mockChatModel{response: "ok"}
	st := &mockSearchTool{output: `{"results":[
		{"title":"RTX 5090 review","url":"https://example.com/5090","summary":"..."},
		{"title":"no url entry","url":"","summary":"..."},
		{"title":"pricing","url":"https://example.com/price","summary":"..."}
	]}`}
	s := NewService(cm, st, 10, 5)

	result, err := s.Converse(context.Background(), "RTX 5090 price", nil, "")
	if err != nil {
		t.Fatalf("Converse() error: %v", err)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(result.Sources))
	}
	if result.Sources[0].URI != "https://example.com/5090" {
		t.Errorf("unexpected first source: %+v", result.Sources[0])
	}
}

func TestConverse_SearchFailureDoesNotAffectReply(t *testing.T) {
	s := NewService(&mockChatModel{response: "answer"}, &mockSearchTool{err: errors.New("rate limited")}, 10, 5)

	result, err := s.Converse(context.Background(), "anything", nil, "")
	if err != nil {
		t.Fatalf("Converse() error: %v", err)
	}
	if result.Text != "answer" || result.Sources != nil {
		t.Errorf("search failure must degrade silently: %+v", result)
	}
}

func TestSearchCitations_CappedAtMax(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"results":[`)
	for i := 0; i < 8; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"title":"t","url":"https://example.com/x","summary":""}`)
	}
	b.WriteString(`]}`)

	s := NewService(&mockChatModel{response: "ok"}, &mockSearchTool{output: b.String()}, 10, 3)
	sources := s.searchCitations(context.Background(), "query")
	if len(sources) != 3 {
		t.Errorf("sources not capped: %d", len(sources))
	}
}

// ========== 行情查询测试 ==========

const validMarketJSON = `[
	{"id":"cpu-1","name":"Intel Ultra 9 385K","category":"CPU","specs":"24-Core",
	 "prices":{"seikkantha":2850000,"yuzana":2790000,"mandalay":2950000}}
]`

func TestQueryMarketPrices_ValidJSON(t *testing.T) {
	s := NewService(&mockChatModel{response: validMarketJSON}, nil, 10, 5)

	entries := s.QueryMarketPrices(context.Background(), "Intel Ultra 9")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Name != "Intel Ultra 9 385K" || e.Prices.Yuzana != 2790000 {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestQueryMarketPrices_FencedJSON(t *testing.T) {
	s := NewService(&mockChatModel{response: "```json\n" + validMarketJSON + "\n```"}, nil, 10, 5)

	entries := s.QueryMarketPrices(context.Background(), "Intel")
	if len(entries) != 1 {
		t.Fatalf("fenced JSON not decoded: %d entries", len(entries))
	}
}

func TestQueryMarketPrices_ProseWrappedJSON(t *testing.T) {
	s := NewService(&mockChatModel{response: "Here are the prices:\n" + validMarketJSON + "\nLet me know."}, nil, 10, 5)

	entries := s.QueryMarketPrices(context.Background(), "Intel")
	if len(entries) != 1 {
		t.Fatalf("prose-wrapped JSON not decoded: %d entries", len(entries))
	}
}

func TestQueryMarketPrices_RepairableJSON(t *testing.T) {
	// 尾逗号：标准解析失败，修复后可用
	broken := `[{"name":"Samsung 990 Pro G6","category":"SSD","specs":"4TB",
	 "prices":{"seikkantha":850000,"yuzana":820000,"mandalay":890000,},},]`
	s := NewService(&mockChatModel{response: broken}, nil, 10, 5)

	entries := s.QueryMarketPrices(context.Background(), "990 Pro")
	if len(entries) != 1 {
		t.Fatalf("repairable JSON not recovered: %d entries", len(entries))
	}
}

func TestQueryMarketPrices_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		cm   *mockChatModel
	}{
		{name: "model error", cm: &mockChatModel{err: errors.New("timeout")}},
		{name: "garbage reply", cm: &mockChatModel{response: "I cannot provide prices."}},
		{name: "empty reply", cm: &mockChatModel{response: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.cm, nil, 10, 5)
			entries := s.QueryMarketPrices(context.Background(), "anything")
			if entries == nil || len(entries) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", entries)
			}
		})
	}
}

func TestQueryMarketPrices_NilModel(t *testing.T) {
	s := NewService(nil, nil, 10, 5)
	if entries := s.QueryMarketPrices(context.Background(), "x"); len(entries) != 0 {
		t.Errorf("nil model should yield empty slice: %#v", entries)
	}
}
