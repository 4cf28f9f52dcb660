package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for Markdown rendering.
var (
	ErrHTMLConversion        = errors.New("HTML conversion failed")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// DefaultHighlightStyle is the chroma style used when highlighting is enabled
// without an explicit style name.
const DefaultHighlightStyle = "github"

// MarkdownRenderer abstracts Markdown to HTML fragment conversion.
type MarkdownRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// RendererOption configures a GoldmarkRenderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	highlightStyle string // empty = plain <pre><code>
	rawHTML        bool
}

// WithHighlighting enables chroma syntax highlighting of fenced code blocks.
// Highlighting emits CSS classes; HighlightCSS returns the matching stylesheet.
func WithHighlighting(style string) RendererOption {
	return func(c *rendererConfig) {
		if style == "" {
			style = DefaultHighlightStyle
		}
		c.highlightStyle = style
	}
}

// WithRawHTML lets raw HTML embedded in the Markdown source through to the
// output instead of replacing it with a comment.
func WithRawHTML() RendererOption {
	return func(c *rendererConfig) {
		c.rawHTML = true
	}
}

// GoldmarkRenderer converts Markdown to an HTML fragment using goldmark.
//
// The extension set is fixed: fenced code blocks and CommonMark lists (core
// goldmark), pipe tables, and hard line breaks. CommonMark list rules already
// give "sane" lists: a new bullet character or ordered delimiter starts a new
// list, and unindented lines never join a list item.
type GoldmarkRenderer struct {
	md           goldmark.Markdown
	preprocessor MarkdownPreprocessor
}

// NewGoldmarkRenderer creates a GoldmarkRenderer.
func NewGoldmarkRenderer(opts ...RendererOption) *GoldmarkRenderer {
	var cfg rendererConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	extensions := []goldmark.Extender{
		extension.Table,
	}
	if cfg.highlightStyle != "" {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // stylesheet comes from HighlightCSS
			),
		))
	}

	rendererOpts := []renderer.Option{
		html.WithHardWraps(), // single newline inside a paragraph -> <br>
	}
	if cfg.rawHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	return &GoldmarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extensions...),
			goldmark.WithRendererOptions(rendererOpts...),
		),
		preprocessor: &CommonMarkPreprocessor{},
	}
}

// Render converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context. A panic inside the parser is
// reported as ErrHTMLConversion.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := r.preprocessor.PreprocessMarkdown(ctx, markdown)

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, p)}
			}
		}()

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(source), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// HighlightCSS returns the stylesheet for the named chroma style, matching
// the classes emitted when WithHighlighting is enabled.
func HighlightCSS(style string) (string, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	if !IsHighlightStyle(style) {
		return "", fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, style)
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}

// IsHighlightStyle reports whether name is a registered chroma style.
func IsHighlightStyle(name string) bool {
	for _, n := range styles.Names() {
		if n == name {
			return true
		}
	}
	return false
}
