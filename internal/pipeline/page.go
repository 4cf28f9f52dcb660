package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// ErrPageRender indicates a page template failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// PageTemplates holds the raw template sources used by PageComposer.
type PageTemplates struct {
	Document string // wraps a rendered fragment
	Landing  string // shown when no document is loaded
	Error    string // shown when a load fails
}

// documentData is the data passed to the document template.
type documentData struct {
	Title  string
	CSS    template.CSS
	Notice string
	Body   template.HTML
}

// landingData is the data passed to the landing template.
type landingData struct {
	Title string
	CSS   template.CSS
}

// errorData is the data passed to the error template.
type errorData struct {
	Title  string
	CSS    template.CSS
	Detail string
}

// PageComposer wraps HTML fragments into complete, styled HTML documents.
type PageComposer struct {
	document *template.Template
	landing  *template.Template
	errPage  *template.Template
	css      template.CSS
}

// NewPageComposer parses the page templates. css is inlined in every page.
// Returns error if a template cannot be parsed.
func NewPageComposer(tmpls PageTemplates, css string) (*PageComposer, error) {
	document, err := template.New("document").Parse(tmpls.Document)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	landing, err := template.New("landing").Parse(tmpls.Landing)
	if err != nil {
		return nil, fmt.Errorf("parsing landing template: %w", err)
	}
	errPage, err := template.New("error").Parse(tmpls.Error)
	if err != nil {
		return nil, fmt.Errorf("parsing error template: %w", err)
	}

	return &PageComposer{
		document: document,
		landing:  landing,
		errPage:  errPage,
		css:      template.CSS(sanitizeCSS(css)), // #nosec G203 -- escaped against </style> breakout
	}, nil
}

// Document wraps fragment in a full HTML document. The fragment is inserted
// into <body> verbatim. A non-empty notice is shown above the content.
func (c *PageComposer) Document(title, fragment, notice string) (string, error) {
	return execute(c.document, documentData{
		Title:  title,
		CSS:    c.css,
		Notice: notice,
		Body:   template.HTML(fragment), // #nosec G203 -- fragment is the renderer's output
	})
}

// Landing renders the page shown before any document is loaded.
func (c *PageComposer) Landing(title string) (string, error) {
	return execute(c.landing, landingData{Title: title, CSS: c.css})
}

// Error renders an error page describing err. It always returns a page:
// if the error template itself fails, a minimal built-in page is used.
func (c *PageComposer) Error(title string, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}

	page, execErr := execute(c.errPage, errorData{Title: title, CSS: c.css, Detail: detail})
	if execErr != nil {
		return fallbackErrorPage(title, detail)
	}
	return page
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// fallbackErrorPage builds an error page without templates.
func fallbackErrorPage(title, detail string) string {
	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		html.EscapeString(title) + "</title>\n</head>\n<body>\n<h1>Error</h1>\n<pre>" +
		html.EscapeString(detail) + "</pre>\n</body>\n</html>\n"
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
