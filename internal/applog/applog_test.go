package applog

// Notes:
// - An unwritable path is simulated with a regular file standing where the
//   log directory should be, which fails for every user including root.

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseLevel
// ---------------------------------------------------------------------------

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: " warn ", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNew - File logger
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("appends records and creates directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", FileName)
		logger := New(path, slog.LevelInfo)

		logger.Info("App starting", "args", "doc.md")
		logger.Debug("hidden below level")
		logger.Warn("image not found", "path", "/tmp/pic.png")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		got := string(data)
		for _, want := range []string{"msg=\"App starting\"", "args=doc.md", "level=WARN", "path=/tmp/pic.png"} {
			if !strings.Contains(got, want) {
				t.Errorf("log = %q, want to contain %q", got, want)
			}
		}
		if strings.Contains(got, "hidden below level") {
			t.Errorf("log = %q, debug record should be filtered", got)
		}
	})

	t.Run("existing content is preserved", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), FileName)
		if err := os.WriteFile(path, []byte("previous session\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		New(path, slog.LevelInfo).Info("next session")

		data, _ := os.ReadFile(path)
		if !strings.HasPrefix(string(data), "previous session\n") || !strings.Contains(string(data), "next session") {
			t.Errorf("log = %q, want appended record", data)
		}
	})

	t.Run("file removed between writes is recreated", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), FileName)
		logger := New(path, slog.LevelInfo)

		logger.Info("first")
		if err := os.Remove(path); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		logger.Info("second")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
			t.Errorf("log = %q, want only the record written after removal", data)
		}
	})
}

// ---------------------------------------------------------------------------
// TestAppendWriter - Failure swallowing and concurrency
// ---------------------------------------------------------------------------

func TestAppendWriter_UnwritablePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	w := NewAppendWriter(filepath.Join(blocker, FileName))
	n, err := w.Write([]byte("dropped\n"))
	if err != nil || n != len("dropped\n") {
		t.Errorf("Write() = (%d, %v), want (%d, nil)", n, err, len("dropped\n"))
	}

	// The logger built on top must not panic either.
	New(w.Path(), slog.LevelInfo).Error("still fine")
}

func TestAppendWriter_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), FileName)
	w := NewAppendWriter(path)

	const writers = 16
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write([]byte("line\n"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if n := strings.Count(string(data), "line\n"); n != writers {
		t.Errorf("file has %d lines, want %d", n, writers)
	}
}

// ---------------------------------------------------------------------------
// TestDefaultPathAndDiscard
// ---------------------------------------------------------------------------

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	got := DefaultPath()
	if filepath.Base(got) != FileName {
		t.Errorf("DefaultPath() = %q, want file name %q", got, FileName)
	}
	if filepath.Base(filepath.Dir(got)) != "go-mdview" {
		t.Errorf("DefaultPath() = %q, want go-mdview directory", got)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("Discard() logger should not be enabled at any level")
	}
}
