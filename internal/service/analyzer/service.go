// Package analyzer 将上传的日志/报告文件提取为纯文本，
// 截断后作为分析请求注入会话。
package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
)

// DefaultMaxChars 注入会话的文件内容上限（按字符计）
const DefaultMaxChars = 5000

// 注入会话的分析请求模板
const analyzePromptTemplate = "Analyze this IT file (%s):\n\n%s"

// Service 文件分析服务
type Service struct {
	maxChars int
}

// NewService 创建文件分析服务
func NewService(maxChars int) *Service {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Service{maxChars: maxChars}
}

// ComposePrompt 解析文件内容并构建分析请求文案
// 超长内容按字符截断，保证注入会话的载荷有界
func (s *Service) ComposePrompt(ctx context.Context, filename string, content io.Reader) (string, error) {
	text, err := s.extractText(ctx, filename, content)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("file %q has no extractable text", filename)
	}

	runes := []rune(text)
	if len(runes) > s.maxChars {
		runes = runes[:s.maxChars]
	}
	return fmt.Sprintf(analyzePromptTemplate, filename, string(runes)), nil
}

// extractText 按扩展名选择解析器，未知类型按纯文本读入
func (s *Service) extractText(ctx context.Context, filename string, content io.Reader) (string, error) {
	var (
		fileParser einoparser.Parser
		err        error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		fileParser, err = pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	case ".docx":
		fileParser, err = docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
	default:
		fileParser = &textParser{}
	}
	if err != nil {
		return "", fmt.Errorf("failed to create parser for %q: %w", filename, err)
	}

	docs, err := fileParser.Parse(ctx, content)
	if err != nil {
		return "", fmt.Errorf("failed to parse %q: %w", filename, err)
	}

	var sb strings.Builder
	for _, d := range docs {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Content)
	}
	return sb.String(), nil
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	if len(content) == 0 {
		return []*schema.Document{}, nil
	}
	return []*schema.Document{{Content: string(content), MetaData: make(map[string]any)}}, nil
}
