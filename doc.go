// Package mdview renders Markdown documents into styled HTML pages for a
// desktop preview window.
//
// # Quick Start
//
// Create a viewer, load a file, and show the page:
//
//	v, err := mdview.NewViewer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := v.LoadFile(ctx, "notes/README.md")
//	if err != nil {
//	    page = v.ErrorPage(err)
//	}
//
//	display := mdview.NewBrowserDisplay()
//	defer display.Close()
//	if err := display.Show(ctx, page); err != nil {
//	    log.Fatal(err)
//	}
//	display.Wait(ctx)
//
// # Rendering Pipeline
//
// Loading a file follows these stages:
//
//  1. Markdown preprocessing (BOM removal, line ending normalization)
//  2. Markdown to HTML conversion via goldmark (fenced code, pipe tables,
//     hard line breaks, CommonMark lists)
//  3. Local image inlining: relative <img> sources are resolved against the
//     document's directory and replaced with base64 data URIs
//  4. Page composition from templates and the selected stylesheet
//
// Remote images and existing data URIs are left untouched. An image that
// cannot be read keeps its original tag and the failure is logged.
//
// Content without a location (LoadDropped) skips stage 3 and the page carries
// a notice that local images are not supported.
//
// # Configuration
//
// Use functional options to customize the viewer:
//
//	v, err := mdview.NewViewer(
//	    mdview.WithLogger(logger),
//	    mdview.WithStyle("github"),
//	    mdview.WithHighlighting("monokai"),
//	    mdview.WithMaxImageBytes(10 << 20),
//	)
//
// # Displays
//
// BrowserDisplay shows pages in a Chromium window driven by go-rod.
// WriterDisplay writes the page HTML to any io.Writer.
//
// # Custom Assets
//
// WithAssetPath points at a directory that overrides built-in assets:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    ├── document.html
//	    ├── landing.html
//	    └── error.html
//
// # Error Handling
//
// Document load failures are reported with sentinel errors (ErrDocumentNotFound,
// ErrNotRegularFile, ErrDecodeDocument, ...) that can be checked with errors.Is.
// ErrorPage turns any error into a page so the window stays usable.
package mdview
