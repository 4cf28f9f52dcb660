package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// utf8BOM is the byte order mark some editors write at the start of a file.
const utf8BOM = "\uFEFF"

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares raw document text for the CommonMark parser.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown strips a leading BOM and normalizes line endings.
// A BOM left in place would hide a heading on the first line.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, utf8BOM)
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	return crlfOrCR.ReplaceAllString(content, "\n")
}
