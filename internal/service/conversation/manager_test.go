// Package conversation 提供会话管理器单元测试
package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/techcoremm/techcore-ai/internal/model"
	"github.com/techcoremm/techcore-ai/internal/service/diagnostic"
	"github.com/techcoremm/techcore-ai/internal/service/gateway"
)

// ========== Mock Gateway ==========

type mockGateway struct {
	reply   string
	err     error
	block   chan struct{} // 非 nil 时阻塞直到关闭，用于并发测试
	entered chan struct{} // 进入 Converse 时关闭

	gotHistory []model.ChatMessage
}

func (m *mockGateway) Converse(ctx context.Context, message string, history []model.ChatMessage, image string) (*gateway.ConverseResult, error) {
	m.gotHistory = history
	if m.entered != nil {
		close(m.entered)
		m.entered = nil
	}
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	return &gateway.ConverseResult{Text: m.reply}, nil
}

func newTestManager(gw Gateway) *Manager {
	return NewManager(gw, diagnostic.NewHistory(20))
}

// ========== 测试 ==========

func TestCreateSession_SeedsGreeting(t *testing.T) {
	m := newTestManager(&mockGateway{})
	sess := m.CreateSession()

	if sess.ID == "" {
		t.Fatal("session id not set")
	}

	messages, err := m.Messages(sess.ID)
	if err != nil {
		t.Fatalf("Messages() error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected only the greeting, got %d messages", len(messages))
	}
	if messages[0].Role != model.RoleModel || messages[0].Text != greetingText {
		t.Errorf("unexpected greeting: %+v", messages[0])
	}
}

func TestMessages_UnknownSession(t *testing.T) {
	m := newTestManager(&mockGateway{})
	if _, err := m.Messages("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSend_EmptySubmitIsNoop(t *testing.T) {
	m := newTestManager(&mockGateway{reply: "hi"})
	sess := m.CreateSession()

	if _, err := m.Send(context.Background(), sess.ID, "   \n", ""); !errors.Is(err, ErrEmptySubmit) {
		t.Errorf("expected ErrEmptySubmit, got %v", err)
	}

	messages, _ := m.Messages(sess.ID)
	if len(messages) != 1 {
		t.Errorf("empty submit must not append messages, got %d", len(messages))
	}
}

func TestSend_ImageOnlyIsAccepted(t *testing.T) {
	m := newTestManager(&mockGateway{reply: sampleDiagReply})
	sess := m.CreateSession()

	result, err := m.Send(context.Background(), sess.ID, "", "aGVsbG8=")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	// 附图触发提取
	if result.Record == nil {
		t.Error("image submit should produce a diagnostic record")
	}
}

func TestSend_AppendsExactlyOnePair(t *testing.T) {
	gw := &mockGateway{reply: "RTX 5090 is the flagship."}
	m := newTestManager(gw)
	sess := m.CreateSession()

	result, err := m.Send(context.Background(), sess.ID, "best GPU in 2026?", "")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if result.UserMessage.Role != model.RoleUser || result.UserMessage.Text != "best GPU in 2026?" {
		t.Errorf("unexpected user message: %+v", result.UserMessage)
	}
	if result.ModelMessage.Role != model.RoleModel || result.ModelMessage.Text != gw.reply {
		t.Errorf("unexpected model message: %+v", result.ModelMessage)
	}
	if result.Record != nil {
		t.Error("plain chat must not produce a diagnostic record")
	}

	messages, _ := m.Messages(sess.ID)
	if len(messages) != 3 { // 开场 + 用户 + 模型
		t.Errorf("expected 3 messages, got %d", len(messages))
	}
}

func TestSend_HistoryExcludesCurrentTurn(t *testing.T) {
	gw := &mockGateway{reply: "ok"}
	m := newTestManager(gw)
	sess := m.CreateSession()

	if _, err := m.Send(context.Background(), sess.ID, "first question", ""); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	// 网关收到的历史只有开场消息，不含本轮输入
	if len(gw.gotHistory) != 1 {
		t.Fatalf("expected history of 1, got %d", len(gw.gotHistory))
	}
	if gw.gotHistory[0].Text != greetingText {
		t.Errorf("unexpected history head: %q", gw.gotHistory[0].Text)
	}
}

func TestSend_GatewayErrorAppendsFixedMessage(t *testing.T) {
	m := newTestManager(&mockGateway{err: errors.New("connection refused")})
	sess := m.CreateSession()

	result, err := m.Send(context.Background(), sess.ID, "run diagnostic", "")
	if err != nil {
		t.Fatalf("gateway failure must not surface as an error: %v", err)
	}
	if result.ModelMessage.Text != gatewayErrorText {
		t.Errorf("unexpected failure text: %q", result.ModelMessage.Text)
	}
	if result.Record != nil {
		t.Error("gateway failure must not produce a diagnostic record")
	}

	// 失败后会话可继续提交
	if _, err := m.Send(context.Background(), sess.ID, "retry diagnostic", ""); err != nil {
		t.Errorf("session stuck after gateway failure: %v", err)
	}
}

const sampleDiagReply = `[Issue Detected]: corroded capacitor C7040
[Repair Path]: Hardware intervention
[Complexity]: 6
[2026 Solution]: replace and seal`

func TestSend_DiagnosticTriggerRecordsHistory(t *testing.T) {
	history := diagnostic.NewHistory(20)
	m := NewManager(&mockGateway{reply: sampleDiagReply}, history)
	sess := m.CreateSession()

	result, err := m.Send(context.Background(), sess.ID, "run a diagnostic on this board", "")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if result.Record == nil {
		t.Fatal("expected a diagnostic record")
	}
	if result.Record.Issue != "corroded capacitor C7040" {
		t.Errorf("unexpected issue: %q", result.Record.Issue)
	}
	if history.Len() != 1 {
		t.Errorf("record not stored in history: %d", history.Len())
	}
}

func TestSend_BracketedReplyWithoutTriggerIsNotExtracted(t *testing.T) {
	m := newTestManager(&mockGateway{reply: sampleDiagReply})
	sess := m.CreateSession()

	result, err := m.Send(context.Background(), sess.ID, "what does this report mean?", "")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if result.Record != nil {
		t.Error("reply shape alone must not trigger extraction")
	}
}

func TestSend_BusyWhileInFlight(t *testing.T) {
	gw := &mockGateway{
		reply:   "done",
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	m := newTestManager(gw)
	sess := m.CreateSession()

	done := make(chan error, 1)
	go func() {
		_, err := m.Send(context.Background(), sess.ID, "slow question", "")
		done <- err
	}()

	<-gw.entered

	if _, err := m.Send(context.Background(), sess.ID, "impatient question", ""); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while in flight, got %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first Send() error: %v", err)
	}

	// 在途请求完成后恢复可用
	if _, err := m.Send(context.Background(), sess.ID, "follow-up", ""); err != nil {
		t.Errorf("session still busy after completion: %v", err)
	}
}

func TestSend_UnknownSession(t *testing.T) {
	m := newTestManager(&mockGateway{})
	if _, err := m.Send(context.Background(), "missing", "hello", ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRecheck_ReplaysRecordIntoSession(t *testing.T) {
	gw := &mockGateway{reply: "re-analysis complete"}
	m := newTestManager(gw)
	sess := m.CreateSession()

	rec := &model.DiagnosticRecord{
		ID:         "abc123def",
		Issue:      "MOSFET short",
		RepairPath: "Hardware intervention",
		Date:       time.Now(),
	}

	result, err := m.Recheck(context.Background(), sess.ID, rec)
	if err != nil {
		t.Fatalf("Recheck() error: %v", err)
	}
	if result.UserMessage.Text != diagnostic.ComposeRecheck(rec) {
		t.Errorf("unexpected recheck prompt: %q", result.UserMessage.Text)
	}
}
