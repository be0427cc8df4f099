// Package diagnostic 将模型的自由文本回复提取为结构化诊断记录，
// 并维护一份有界、最新在前的诊断历史。
package diagnostic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techcoremm/techcore-ai/internal/model"
)

// Silicon Health Report 的四个标注字段
const (
	labelIssue      = "Issue Detected"
	labelRepairPath = "Repair Path"
	labelComplexity = "Complexity"
	labelSolution   = "2026 Solution"
)

// 字段缺失时的占位文案，表示"提取待定/失败"，不是真实诊断结论
const (
	placeholderRepairPath = "Analyzing repair nodes..."
	placeholderSolution   = "Generating future-proof fix..."
)

const defaultComplexity = 5

var (
	fieldPatterns   = map[string]*regexp.Regexp{}
	digitsPattern   = regexp.MustCompile(`\d+`)
	categoryPattern = regexp.MustCompile(`Category: ([^.]+)`)
)

func init() {
	for _, label := range []string{labelIssue, labelRepairPath, labelComplexity, labelSolution} {
		// [Label]: 值，值延伸到下一个方括号标签或文本结尾
		fieldPatterns[label] = regexp.MustCompile(
			`(?is)\[` + regexp.QuoteMeta(label) + `\]:?\s*(.*?)(?:\n\[|$)`)
	}
}

// ShouldDiagnose 提取触发条件：用户输入含 "diagnostic"（不区分大小写）或附带图片
// 普通聊天的回复绝不会被解析成诊断记录
func ShouldDiagnose(userText, image string) bool {
	return strings.Contains(strings.ToLower(userText), "diagnostic") || image != ""
}

// ExtractField 从回复中提取一个标注字段的值，无匹配时返回空串
func ExtractField(reply, label string) string {
	p, ok := fieldPatterns[label]
	if !ok {
		return ""
	}
	m := p.FindStringSubmatch(reply)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Extract 将一次模型回复解析为完整的诊断记录
// 每个字段缺失时都有既定的回退/默认链，提取本身不会失败
func Extract(userText, reply, image string) *model.DiagnosticRecord {
	issue := ExtractField(reply, labelIssue)
	if issue == "" {
		issue = fallbackIssue(userText)
	}

	repairPath := ExtractField(reply, labelRepairPath)
	if repairPath == "" {
		repairPath = placeholderRepairPath
	}

	solution := ExtractField(reply, labelSolution)
	if solution == "" {
		solution = placeholderSolution
	}

	return &model.DiagnosticRecord{
		ID:           newReportID(),
		Issue:        issue,
		RepairPath:   repairPath,
		Complexity:   parseComplexity(ExtractField(reply, labelComplexity)),
		Solution2026: solution,
		Category:     resolveCategory(userText),
		Date:         time.Now(),
		Image:        image,
		RawResponse:  reply,
	}
}

// fallbackIssue Issue 字段缺失时的回退链：
// 带 Category: 标记时取最后一个句号之后的片段，否则取用户输入前 50 个字符
func fallbackIssue(userText string) string {
	if strings.Contains(userText, "Category:") {
		parts := strings.Split(userText, ".")
		return strings.TrimSpace(parts[len(parts)-1])
	}
	runes := []rune(userText)
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}

// parseComplexity 取 Complexity 字段里的第一个整数，缺失时默认 5
// 始终收敛到 [1,10]，保证记录不变量成立
func parseComplexity(field string) int {
	token := digitsPattern.FindString(field)
	if token == "" {
		return defaultComplexity
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return defaultComplexity
	}
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// resolveCategory 从用户输入解析诊断领域
// 仅当输入带 Category: 标记且值与枚举完全一致时命中，否则回退通用系统类
func resolveCategory(userText string) model.DiagnosticCategory {
	if !strings.Contains(userText, "Category:") {
		return model.CategorySystemOS
	}
	m := categoryPattern.FindStringSubmatch(userText)
	if m == nil {
		return model.CategorySystemOS
	}
	return model.ParseCategory(m[1])
}

// newReportID 生成短随机报告 ID（尽力唯一，够用作展示键）
func newReportID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
}

// ComposeRequest 构建诊断中心提交的请求文案
func ComposeRequest(category model.DiagnosticCategory, symptoms string) string {
	if strings.TrimSpace(symptoms) == "" {
		symptoms = "None"
	}
	return fmt.Sprintf("Hardware Diagnostic Request: Category: %s. Symptoms: %s.", category, symptoms)
}

// ComposeRecheck 构建"复制记录到会话"的追问文案
func ComposeRecheck(rec *model.DiagnosticRecord) string {
	return fmt.Sprintf("Re-analyze Silicon Report ID: %s\nIssue: %s\nRepair Path: %s\nRequested follow-up analysis on this hardware state.",
		rec.ID, rec.Issue, rec.RepairPath)
}
