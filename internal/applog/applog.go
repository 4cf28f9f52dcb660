// Package applog builds the viewer's debug logger.
//
// Records go to an append-only file that is opened for every write, so a
// log file removed while the viewer runs is recreated, and a file that cannot
// be written never interrupts the caller.
package applog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInvalidLevel indicates an unknown log level name.
var ErrInvalidLevel = errors.New("invalid log level")

// FileName is the default log file name.
const FileName = "debug.log"

const appDirName = "go-mdview"

// DefaultPath returns <user cache dir>/go-mdview/debug.log, falling back to
// the temp directory when no cache directory is known.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDirName, FileName)
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to slog
// levels. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// New returns a text logger appending to path at the given level.
// An empty path uses DefaultPath.
func New(path string, level slog.Level) *slog.Logger {
	if path == "" {
		path = DefaultPath()
	}
	return slog.New(slog.NewTextHandler(NewAppendWriter(path), &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// AppendWriter appends each Write to a file, creating the file and its
// directory as needed. Failures are swallowed: Write always reports success.
type AppendWriter struct {
	mu   sync.Mutex
	path string
}

// NewAppendWriter returns an AppendWriter for path.
func NewAppendWriter(path string) *AppendWriter {
	return &AppendWriter{path: path}
}

// Path returns the file the writer appends to.
func (w *AppendWriter) Path() string {
	return w.path
}

// Write appends p to the file. It never returns an error.
func (w *AppendWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_ = w.append(p)
	return len(p), nil
}

func (w *AppendWriter) append(p []byte) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
		return err
	}
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) // #nosec G304 -- log path is user-provided
	if err != nil {
		return err
	}
	_, werr := f.Write(p)
	cerr := f.Close()
	return errors.Join(werr, cerr)
}

// Compile-time interface check.
var _ io.Writer = (*AppendWriter)(nil)
