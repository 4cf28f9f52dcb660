package mdview

import "log/slog"

// DefaultTitle is the window title shown before any document is loaded.
const DefaultTitle = "Markdown Viewer"

// DropNotice is shown above content loaded without a base directory.
const DropNotice = "Drag & Drop preview does not support local images. Use Browse File for full support."

// untitledName names dropped content that arrives without a file name.
const untitledName = "Untitled"

// Document is a Markdown document ready to render.
type Document struct {
	Text    string // Markdown source
	Name    string // file name, used in titles
	BaseDir string // absolute directory for relative images; empty disables embedding
}

// Page is a complete HTML document ready for a Display.
type Page struct {
	Title    string // window title
	HTML     string // full document: doctype, head, stylesheet, body
	Fragment string // rendered body content; empty for landing and error pages
	Source   string // absolute path of the loaded file; empty for dropped content
	Preview  bool   // true when local images were not embedded
}

// OpenRequest is a document the user dropped on the window or picked with
// its Browse button.
type OpenRequest struct {
	// Path is set when the file's location is known. It is then loaded
	// like a file named on the command line, images included.
	Path string
	// Name and Content are what the page read from the file.
	Name    string
	Content string
}

// Option configures a Viewer.
type Option func(*Viewer)

// viewerConfig holds configuration applied by options.
type viewerConfig struct {
	logger         *slog.Logger
	title          string
	style          string // style name or path to a CSS file
	css            string // extra CSS appended after the style
	assetPath      string
	highlight      bool
	highlightStyle string
	rawHTML        bool
	maxImageBytes  int64
}

// WithLogger sets the logger that receives load and embed events.
// A nil logger discards events.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		v.cfg.logger = l
	}
}

// WithTitle sets the base window title. Documents are shown as
// "<title> - <file name>".
func WithTitle(title string) Option {
	return func(v *Viewer) {
		v.cfg.title = title
	}
}

// WithStyle sets the page style: a built-in or asset-path style name,
// or a path to a CSS file (any value containing a path separator).
func WithStyle(nameOrPath string) Option {
	return func(v *Viewer) {
		v.cfg.style = nameOrPath
	}
}

// WithCSS appends custom CSS after the page style.
func WithCSS(css string) Option {
	return func(v *Viewer) {
		v.cfg.css = css
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in assets. Missing files fall back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(v *Viewer) {
		v.cfg.assetPath = path
	}
}

// WithHighlighting enables syntax highlighting of fenced code blocks using
// the named chroma style (empty = github).
func WithHighlighting(style string) Option {
	return func(v *Viewer) {
		v.cfg.highlight = true
		v.cfg.highlightStyle = style
	}
}

// WithRawHTML passes raw HTML in the Markdown source through to the page.
// Only use it with trusted documents.
func WithRawHTML() Option {
	return func(v *Viewer) {
		v.cfg.rawHTML = true
	}
}

// WithMaxImageBytes skips inlining of local images larger than n bytes.
// Zero means no limit.
func WithMaxImageBytes(n int64) Option {
	return func(v *Viewer) {
		v.cfg.maxImageBytes = n
	}
}
