package mdview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ReadDocument reads the Markdown file at path. The base directory of the
// returned Document is the file's absolute containing directory.
func ReadDocument(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, ErrEmptyPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, absPath)
		}
		return Document{}, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	if !info.Mode().IsRegular() {
		return Document{}, fmt.Errorf("%w: %s", ErrNotRegularFile, absPath)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- user-selected document
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s", ErrDecodeDocument, absPath)
	}

	return Document{
		Text:    string(data),
		Name:    filepath.Base(absPath),
		BaseDir: filepath.Dir(absPath),
	}, nil
}

// DroppedDocument wraps content that arrived without a location, such as a
// drag-and-drop payload. Local images in it are not embedded.
func DroppedDocument(content, filename string) Document {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		name = untitledName
	}
	return Document{Text: content, Name: name}
}
