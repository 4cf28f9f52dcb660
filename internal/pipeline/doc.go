// Package pipeline implements the Markdown-to-displayable-HTML pipeline.
//
// This package handles the stages between raw document text and a page the
// display surface can show:
//   - Markdown preprocessing (BOM removal, line ending normalization)
//   - Markdown to HTML fragment conversion via goldmark
//   - Local image inlining as base64 data URIs
//   - Page composition from templates and stylesheets
//
// Reading documents and driving the display are handled by the root mdview
// package. Each stage is stateless between calls and safe for concurrent use.
package pipeline
