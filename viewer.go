package mdview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.MarkdownRenderer     = (*pipeline.GoldmarkRenderer)(nil)
	_ pipeline.ImageEmbedder        = (*pipeline.DataURIEmbedder)(nil)
)

// Viewer turns Markdown documents into displayable pages.
// Create with NewViewer. A Viewer holds no per-document state and is safe
// for concurrent use.
type Viewer struct {
	cfg      viewerConfig
	logger   *slog.Logger
	loader   assets.AssetLoader
	renderer pipeline.MarkdownRenderer
	embedder pipeline.ImageEmbedder
	composer *pipeline.PageComposer
}

// NewViewer creates a Viewer. Options select the style, assets and
// rendering extras. Returns error if assets cannot be loaded or parsed.
func NewViewer(opts ...Option) (*Viewer, error) {
	v := &Viewer{
		cfg: viewerConfig{
			title: DefaultTitle,
			style: assets.DefaultStyleName,
		},
	}

	for _, opt := range opts {
		opt(v)
	}

	v.logger = v.cfg.logger
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	if v.cfg.title == "" {
		v.cfg.title = DefaultTitle
	}

	resolver, err := assets.NewResolver(v.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	v.loader = resolver

	css, err := v.buildCSS()
	if err != nil {
		return nil, err
	}

	tmpls, err := v.loadTemplates()
	if err != nil {
		return nil, err
	}

	v.composer, err = pipeline.NewPageComposer(tmpls, css)
	if err != nil {
		return nil, fmt.Errorf("initializing page composer: %w", err)
	}

	var rendererOpts []pipeline.RendererOption
	if v.cfg.highlight {
		rendererOpts = append(rendererOpts, pipeline.WithHighlighting(v.cfg.highlightStyle))
	}
	if v.cfg.rawHTML {
		rendererOpts = append(rendererOpts, pipeline.WithRawHTML())
	}
	v.renderer = pipeline.NewGoldmarkRenderer(rendererOpts...)

	v.embedder = pipeline.NewDataURIEmbedder(v.logger, pipeline.WithMaxImageBytes(v.cfg.maxImageBytes))

	return v, nil
}

// buildCSS resolves the page stylesheet: style, then highlight rules,
// then custom CSS so that it can override both.
func (v *Viewer) buildCSS() (string, error) {
	css, err := v.resolveStyle()
	if err != nil {
		return "", err
	}

	if v.cfg.highlight {
		highlightCSS, err := pipeline.HighlightCSS(v.cfg.highlightStyle)
		if err != nil {
			return "", err
		}
		css += "\n" + highlightCSS
	}

	if v.cfg.css != "" {
		css += "\n" + v.cfg.css
	}
	return css, nil
}

// resolveStyle resolves the style input (name or path) to CSS content.
func (v *Viewer) resolveStyle() (string, error) {
	input := v.cfg.style
	if input == "" {
		return "", nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	css, err := v.loader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

func (v *Viewer) loadTemplates() (pipeline.PageTemplates, error) {
	var tmpls pipeline.PageTemplates
	for _, t := range []struct {
		name string
		dst  *string
	}{
		{assets.DocumentTemplateName, &tmpls.Document},
		{assets.LandingTemplateName, &tmpls.Landing},
		{assets.ErrorTemplateName, &tmpls.Error},
	} {
		content, err := v.loader.LoadTemplate(t.name)
		if err != nil {
			return pipeline.PageTemplates{}, fmt.Errorf("loading %s template: %w", t.name, err)
		}
		*t.dst = content
	}
	return tmpls, nil
}

// RenderFragment renders doc to an HTML fragment and, when doc has a base
// directory, inlines its local images.
func (v *Viewer) RenderFragment(ctx context.Context, doc Document) (fragment string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	fragment, err = v.renderer.Render(ctx, doc.Text)
	if err != nil {
		return "", err
	}

	if doc.BaseDir != "" {
		fragment = v.embedder.Embed(ctx, fragment, doc.BaseDir)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fragment, nil
}

// LoadFile reads, renders and embeds the Markdown file at path.
// On error the caller should show ErrorPage(err); the Viewer stays usable.
func (v *Viewer) LoadFile(ctx context.Context, path string) (*Page, error) {
	v.logger.Info("loading file", "path", path)

	doc, err := ReadDocument(path)
	if err != nil {
		v.logger.Error("failed to load file", "path", path, "error", err)
		return nil, err
	}

	page, err := v.compose(ctx, doc, fileTitle(v.cfg.title, doc.Name), "")
	if err != nil {
		v.logger.Error("failed to render file", "path", path, "error", err)
		return nil, err
	}
	page.Source = joinSource(doc)

	v.logger.Info("file loaded", "path", page.Source, "bytes", len(doc.Text))
	return page, nil
}

// LoadDropped renders content that arrived without a location. Local images
// are left as they are and the page carries DropNotice.
func (v *Viewer) LoadDropped(ctx context.Context, content, filename string) (*Page, error) {
	doc := DroppedDocument(content, filename)
	v.logger.Info("loading dropped content", "name", doc.Name, "bytes", len(content))

	page, err := v.compose(ctx, doc, fileTitle(v.cfg.title, doc.Name)+" (Preview)", DropNotice)
	if err != nil {
		v.logger.Error("failed to render dropped content", "name", doc.Name, "error", err)
		return nil, err
	}
	page.Preview = true
	return page, nil
}

func (v *Viewer) compose(ctx context.Context, doc Document, title, notice string) (*Page, error) {
	fragment, err := v.RenderFragment(ctx, doc)
	if err != nil {
		return nil, err
	}

	html, err := v.composer.Document(title, fragment, notice)
	if err != nil {
		return nil, err
	}

	return &Page{Title: title, HTML: html, Fragment: fragment}, nil
}

// Landing returns the page shown before any document is loaded.
func (v *Viewer) Landing() (*Page, error) {
	html, err := v.composer.Landing(v.cfg.title)
	if err != nil {
		return nil, err
	}
	return &Page{Title: v.cfg.title, HTML: html}, nil
}

// ErrorPage returns a page describing err. It never fails.
func (v *Viewer) ErrorPage(err error) *Page {
	title := v.cfg.title + " - Error"
	return &Page{Title: title, HTML: v.composer.Error(title, err)}
}

// Title returns the base window title.
func (v *Viewer) Title() string {
	return v.cfg.title
}

func fileTitle(base, name string) string {
	return base + " - " + name
}

func joinSource(doc Document) string {
	if doc.BaseDir == "" {
		return ""
	}
	return filepath.Join(doc.BaseDir, doc.Name)
}
