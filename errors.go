package mdview

import (
	"errors"

	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Document loading errors.
	ErrEmptyPath        = errors.New("document path cannot be empty")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotRegularFile   = errors.New("document is not a regular file")
	ErrReadDocument     = errors.New("failed to read document")
	ErrDecodeDocument   = errors.New("document is not valid UTF-8 text")

	// Rendering errors.
	ErrHTMLConversion        = pipeline.ErrHTMLConversion
	ErrUnknownHighlightStyle = pipeline.ErrUnknownHighlightStyle
	ErrPageRender            = pipeline.ErrPageRender

	// Display errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrNilPage        = errors.New("page cannot be nil")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
