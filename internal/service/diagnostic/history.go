package diagnostic

import (
	"strings"
	"sync"

	"github.com/techcoremm/techcore-ai/internal/model"
)

// DefaultHistoryCap 诊断历史默认容量
const DefaultHistoryCap = 20

// History 内存诊断历史，最新在前，超出容量淘汰最旧的记录
// 记录写入后不可变，除容量淘汰外没有更新/删除
type History struct {
	mu      sync.RWMutex
	cap     int
	records []*model.DiagnosticRecord
}

// NewHistory 创建诊断历史
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity}
}

// Add 头部插入一条记录，超出容量时丢弃尾部
func (h *History) Add(rec *model.DiagnosticRecord) {
	if rec == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append([]*model.DiagnosticRecord{rec}, h.records...)
	if len(h.records) > h.cap {
		h.records = h.records[:h.cap]
	}
}

// All 返回全部记录的快照（最新在前）
func (h *History) All() []*model.DiagnosticRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*model.DiagnosticRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Get 按 ID 查找记录
func (h *History) Get(id string) (*model.DiagnosticRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rec := range h.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// Filter 对 issue/category/id 做不区分大小写的子串过滤
// 空查询返回全部记录，顺序保持不变
func (h *History) Filter(query string) []*model.DiagnosticRecord {
	q := strings.ToLower(query)
	if q == "" {
		return h.All()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*model.DiagnosticRecord, 0, len(h.records))
	for _, rec := range h.records {
		if strings.Contains(strings.ToLower(rec.Issue), q) ||
			strings.Contains(strings.ToLower(string(rec.Category)), q) ||
			strings.Contains(strings.ToLower(rec.ID), q) {
			out = append(out, rec)
		}
	}
	return out
}

// Len 当前记录数
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
