package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Sentinel errors for per-image embedding. They never escape Embed; they are
// logged with the image that caused them.
var (
	ErrImageNotFound   = errors.New("image not found")
	ErrImageNotRegular = errors.New("image is not a regular file")
	ErrImageTooLarge   = errors.New("image exceeds size limit")
	ErrImageRead       = errors.New("failed to read image")
)

// DefaultImageMIME is used when the file extension has no known media type.
const DefaultImageMIME = "image/png"

// ImageEmbedder rewrites local image references in an HTML fragment.
type ImageEmbedder interface {
	Embed(ctx context.Context, fragment, baseDir string) string
}

// EmbeddedAsset is an image file encoded for inline use.
type EmbeddedAsset struct {
	MIME    string
	Payload string // standard base64 with padding
}

// DataURI returns the asset as a data: URI.
func (a EmbeddedAsset) DataURI() string {
	return "data:" + a.MIME + ";base64," + a.Payload
}

// EmbedderOption configures a DataURIEmbedder.
type EmbedderOption func(*DataURIEmbedder)

// WithMaxImageBytes skips images larger than n bytes. Zero means no limit.
func WithMaxImageBytes(n int64) EmbedderOption {
	return func(e *DataURIEmbedder) {
		e.maxBytes = n
	}
}

// DataURIEmbedder replaces the src of local <img> tags with base64 data URIs.
//
// Tags are located with the HTML tokenizer, so attribute values containing
// '>' or quotes of the other kind do not confuse the scan. Only the src value
// of an embedded image changes; every other byte of the fragment is kept.
type DataURIEmbedder struct {
	logger   *slog.Logger
	maxBytes int64
	readFile func(string) ([]byte, error)
}

// NewDataURIEmbedder creates a DataURIEmbedder logging to logger.
// A nil logger discards events.
func NewDataURIEmbedder(logger *slog.Logger, opts ...EmbedderOption) *DataURIEmbedder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &DataURIEmbedder{
		logger:   logger,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed inlines every local image of fragment, resolving relative sources
// against baseDir. It never fails: an image that cannot be embedded keeps its
// original tag. An empty baseDir disables embedding, and a fragment in which
// nothing was rewritten is returned as is.
func (e *DataURIEmbedder) Embed(ctx context.Context, fragment, baseDir string) string {
	if baseDir == "" || !strings.Contains(strings.ToLower(fragment), "<img") {
		return fragment
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		e.logger.Warn("cannot resolve image base directory", "dir", baseDir, "error", err)
		return fragment
	}

	var buf strings.Builder
	buf.Grow(len(fragment))
	rewritten := 0

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break // io.EOF: a strings.Reader has no other failure mode
		}

		// Copy before TagName/TagAttr, which lower-case the buffer in place.
		raw := string(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			buf.WriteString(raw)
			continue
		}

		name, hasAttr := z.TagName()
		if string(name) != "img" || !hasAttr || ctx.Err() != nil {
			buf.WriteString(raw)
			continue
		}

		src, ok := srcAttr(z)
		if !ok || !isLocalSource(src) {
			buf.WriteString(raw)
			continue
		}

		tag, ok := e.embedTag(raw, src, absBaseDir)
		if ok {
			rewritten++
		}
		buf.WriteString(tag)
	}

	if rewritten == 0 {
		return fragment
	}
	return buf.String()
}

// embedTag returns raw with its src value replaced by a data URI.
// On any failure it logs and returns raw unchanged.
func (e *DataURIEmbedder) embedTag(raw, src, baseDir string) (string, bool) {
	asset, path, err := e.loadAsset(src, baseDir)
	if err != nil {
		if errors.Is(err, ErrImageNotFound) {
			e.logger.Warn("image not found", "src", src, "path", path)
		} else {
			e.logger.Warn("failed to embed image", "src", src, "path", path, "error", err)
		}
		return raw, false
	}

	tag, ok := replaceAttrValue(raw, "src", asset.DataURI())
	if !ok {
		e.logger.Warn("failed to embed image", "src", src, "error", "src attribute not located in tag")
		return raw, false
	}

	e.logger.Info("embedded image", "src", src, "path", path, "mime", asset.MIME)
	return tag, true
}

// loadAsset resolves src against baseDir and encodes the file it names.
// The returned path is the last candidate examined, for logging.
func (e *DataURIEmbedder) loadAsset(src, baseDir string) (EmbeddedAsset, string, error) {
	path, err := resolveImagePath(src, baseDir)
	if err != nil {
		return EmbeddedAsset{}, path, err
	}

	if e.maxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return EmbeddedAsset{}, path, fmt.Errorf("%w: %v", ErrImageRead, err)
		}
		if info.Size() > e.maxBytes {
			return EmbeddedAsset{}, path, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, info.Size(), e.maxBytes)
		}
	}

	data, err := e.readFile(path) // #nosec G304 -- the document directory is chosen by the user
	if err != nil {
		return EmbeddedAsset{}, path, fmt.Errorf("%w: %v", ErrImageRead, err)
	}

	return EmbeddedAsset{
		MIME:    GuessImageMIME(path),
		Payload: base64.StdEncoding.EncodeToString(data),
	}, path, nil
}

// resolveImagePath maps an img src to an existing regular file.
// Relative sources are joined to baseDir, never to the working directory.
// A percent-encoded source (goldmark encodes spaces as %20) is retried decoded.
func resolveImagePath(src, baseDir string) (string, error) {
	candidates := []string{src}
	if decoded, err := url.PathUnescape(src); err == nil && decoded != src {
		candidates = append(candidates, decoded)
	}

	var path string
	for _, c := range candidates {
		path = filepath.FromSlash(c)
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			return path, fmt.Errorf("%w: %s", ErrImageNotRegular, path)
		}
		return path, nil
	}

	return path, fmt.Errorf("%w: %s", ErrImageNotFound, path)
}

// GuessImageMIME returns the media type for path's extension,
// or DefaultImageMIME when the extension is unknown.
func GuessImageMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return DefaultImageMIME
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return DefaultImageMIME
	}
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return DefaultImageMIME
}

// isLocalSource reports whether src names a filesystem path.
func isLocalSource(src string) bool {
	if src == "" {
		return false
	}
	lower := strings.ToLower(src)
	return !strings.HasPrefix(lower, "http://") &&
		!strings.HasPrefix(lower, "https://") &&
		!strings.HasPrefix(lower, "data:")
}

// srcAttr returns the first src attribute of the current tag token.
// Later duplicates are ignored, as browsers do.
func srcAttr(z *html.Tokenizer) (string, bool) {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "src" {
			return string(val), true
		}
		if !more {
			return "", false
		}
	}
}

// replaceAttrValue replaces the value of the first attribute named attr in
// the raw start tag, keeping quotes and everything around the value. An
// unquoted value is replaced by a double-quoted one.
// The tokenizer reports attribute contents but not their offsets, so the
// tag is rescanned with the same attribute grammar.
func replaceAttrValue(raw, attr, value string) (string, bool) {
	i := strings.IndexByte(raw, '<')
	if i < 0 {
		return raw, false
	}
	i++
	// tag name
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	for i < len(raw) {
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			return raw, false
		}

		nameStart := i
		i++ // the first character may be '=' per the tokenizer rules
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		name := strings.ToLower(raw[nameStart:i])

		j := i
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j >= len(raw) || raw[j] != '=' {
			continue // attribute without value
		}
		j++
		for j < len(raw) && isTagSpace(raw[j]) {
			j++
		}
		if j >= len(raw) {
			return raw, false
		}

		var valStart, valEnd int
		quoted := true
		switch quote := raw[j]; quote {
		case '"', '\'':
			valStart = j + 1
			end := strings.IndexByte(raw[valStart:], quote)
			if end < 0 {
				return raw, false
			}
			valEnd = valStart + end
			i = valEnd + 1
		default:
			quoted = false
			valStart = j
			valEnd = j
			for valEnd < len(raw) && !isTagSpace(raw[valEnd]) && raw[valEnd] != '>' {
				valEnd++
			}
			i = valEnd
		}

		if name == attr {
			if !quoted {
				// '=' is not allowed in an unquoted value.
				value = `"` + value + `"`
			}
			return raw[:valStart] + value + raw[valEnd:], true
		}
	}

	return raw, false
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
