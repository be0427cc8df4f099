// Package conversation 持有会话消息日志与请求状态机，
// 并在命中触发条件时驱动诊断提取。
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techcoremm/techcore-ai/internal/model"
	"github.com/techcoremm/techcore-ai/internal/service/diagnostic"
	"github.com/techcoremm/techcore-ai/internal/service/gateway"
	"github.com/techcoremm/techcore-ai/pkg/log"
)

// 新会话的开场消息
const greetingText = "မင်္ဂလာပါ။ TechCore AI v2.6 (2026 Premiere) မှ ကြိုဆိုပါတယ်။ ကျွန်ုပ်တို့၏ Technology knowledge, Hardware prices နှင့် Tech locations များကို update ပြုလုပ်ထားပြီးဖြစ်ပါတယ်။ Laptop, PC, Phone hardware ပြဿနာများနှင့် 2026 ထွက် model သစ်များအကြောင်းကို စုံစမ်းမေးမြန်းနိုင်ပါတယ်ခင်ဗျ။"

// 网关失败时追加的固定失败消息
const gatewayErrorText = "Error communicating with diagnostic engine. Please check your network connection."

var (
	// ErrEmptySubmit 文本与图片都为空的提交是 no-op
	ErrEmptySubmit = errors.New("empty submit")
	// ErrBusy 同一会话同时只允许一个在途请求
	ErrBusy = errors.New("a request is already in flight for this session")
	// ErrSessionNotFound 会话不存在
	ErrSessionNotFound = errors.New("session not found")
)

// Gateway 对话所需的网关能力
type Gateway interface {
	Converse(ctx context.Context, message string, history []model.ChatMessage, image string) (*gateway.ConverseResult, error)
}

// Session 一个长生命周期会话
// 消息日志只增不减，仅在发给网关时做有界截断
type Session struct {
	ID        string
	CreatedAt time.Time

	messages []model.ChatMessage
	awaiting bool // Idle=false / AwaitingResponse=true
}

// Manager 会话管理器，所有共享状态的单一写入方
// 持锁期间不发起网络调用
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	gw      Gateway
	history *diagnostic.History
}

// NewManager 创建会话管理器
func NewManager(gw Gateway, history *diagnostic.History) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		gw:       gw,
		history:  history,
	}
}

// CreateSession 创建新会话并注入开场消息
func (m *Manager) CreateSession() *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		messages: []model.ChatMessage{{
			Role:      model.RoleModel,
			Text:      greetingText,
			Timestamp: time.Now(),
		}},
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return sess
}

// Messages 返回会话消息日志的快照
func (m *Manager) Messages(sessionID string) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]model.ChatMessage, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// SendResult 一次提交的结果：恰好一条用户消息与一条模型/错误消息
type SendResult struct {
	UserMessage  model.ChatMessage       `json:"user_message"`
	ModelMessage model.ChatMessage       `json:"model_message"`
	Record       *model.DiagnosticRecord `json:"record,omitempty"`
}

// Send 提交新一轮用户输入
// 乐观追加用户消息，网关解析后恰好追加一条模型或失败消息；
// 网关失败不会产生诊断记录，也不会留下悬挂的在途标记
func (m *Manager) Send(ctx context.Context, sessionID, text, image string) (*SendResult, error) {
	if isBlank(text) && image == "" {
		return nil, ErrEmptySubmit
	}

	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.awaiting {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	sess.awaiting = true

	// 发给网关的历史不含本轮输入
	history := make([]model.ChatMessage, len(sess.messages))
	copy(history, sess.messages)

	userMsg := model.ChatMessage{
		Role:      model.RoleUser,
		Text:      text,
		Image:     image,
		Timestamp: time.Now(),
	}
	sess.messages = append(sess.messages, userMsg)
	m.mu.Unlock()

	result, err := m.gw.Converse(ctx, text, history, image)

	m.mu.Lock()
	defer m.mu.Unlock()
	sess.awaiting = false

	if err != nil {
		log.Errorf("gateway converse failed: %v", err)
		errMsg := model.ChatMessage{
			Role:      model.RoleModel,
			Text:      gatewayErrorText,
			Timestamp: time.Now(),
		}
		sess.messages = append(sess.messages, errMsg)
		return &SendResult{UserMessage: userMsg, ModelMessage: errMsg}, nil
	}

	modelMsg := model.ChatMessage{
		Role:      model.RoleModel,
		Text:      result.Text,
		Timestamp: time.Now(),
		Sources:   result.Sources,
	}
	sess.messages = append(sess.messages, modelMsg)

	out := &SendResult{UserMessage: userMsg, ModelMessage: modelMsg}
	if diagnostic.ShouldDiagnose(text, image) {
		rec := diagnostic.Extract(text, result.Text, image)
		m.history.Add(rec)
		out.Record = rec
	}
	return out, nil
}

// Recheck 将一条历史记录复制回会话做追问分析
func (m *Manager) Recheck(ctx context.Context, sessionID string, rec *model.DiagnosticRecord) (*SendResult, error) {
	return m.Send(ctx, sessionID, diagnostic.ComposeRecheck(rec), rec.Image)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
