// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// tempPrefix names every temporary file the viewer creates.
const tempPrefix = "mdview-"

// WriteTempFile stores content in a new file under the system temp directory,
// named with the given extension. The caller removes it with cleanup.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	path, err = writeTemp("", tempPrefix+"*."+extension, content)
	if err != nil {
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// ReplaceFile swaps content in at path with a rename from a sibling file,
// so a reader sees either the old page or the new one.
func ReplaceFile(path, content string) error {
	tmpPath, err := writeTemp(filepath.Dir(path), "."+tempPrefix+"*", content)
	if err != nil {
		return err
	}

	// CreateTemp makes 0600 files; the page is meant to be shared.
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// writeTemp creates a file from pattern in dir holding content. Nothing is
// left behind on failure.
func writeTemp(dir, pattern, content string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	_, err = f.WriteString(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}

// ValidateExtension rejects extensions that would move a temp file out of
// the temp directory.
func ValidateExtension(extension string) error {
	switch {
	case extension == "":
		return ErrExtensionEmpty
	case strings.ContainsAny(extension, "/\\\x00"):
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsFilePath tells a path ("./dark.css", `C:\x\dark.css`) from a bare
// asset name ("github") by looking for a separator.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// TrimQuotes removes one pair of matching surrounding quotes, as left behind
// when a quoted path is passed through a launcher that does not strip them.
func TrimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
