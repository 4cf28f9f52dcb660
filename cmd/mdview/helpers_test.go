package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake window and environment
// ---------------------------------------------------------------------------

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// fakeWindow records shown pages. Wait returns once waitFor pages have been
// shown, as if the user closed the window right after. requests are
// delivered as documents opened from the window.
type fakeWindow struct {
	mu       sync.Mutex
	pages    []*mdview.Page
	showErr  error
	closed   bool
	width    int
	height   int
	waitFor  int
	requests []mdview.OpenRequest
	opened   chan mdview.OpenRequest
}

func (w *fakeWindow) Show(_ context.Context, page *mdview.Page) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.showErr != nil {
		return w.showErr
	}
	w.pages = append(w.pages, page)
	return nil
}

func (w *fakeWindow) Wait(ctx context.Context) error {
	deadline := time.After(5 * time.Second)
	for len(w.shown()) < w.waitFor {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return nil
		case <-time.After(5 * time.Millisecond):
		}
	}
	return nil
}

func (w *fakeWindow) Requests() <-chan mdview.OpenRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.opened == nil {
		w.opened = make(chan mdview.OpenRequest, len(w.requests))
		for _, r := range w.requests {
			w.opened <- r
		}
	}
	return w.opened
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWindow) shown() []*mdview.Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*mdview.Page(nil), w.pages...)
}

// testEnv returns an environment whose window is win.
func testEnv(win *fakeWindow) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	env := &Environment{
		Stdin:  bytes.NewReader(nil),
		Stdout: stdout,
		Stderr: stderr,
		NewDisplay: func(cfg *config.Config, _ *slog.Logger) windowDisplay {
			win.width, win.height = cfg.Window.Width, cfg.Window.Height
			return win
		},
	}
	return env, stdout, stderr
}

// runArgs parses args the way main does and runs the command. A temp log
// file is added so tests never write to the user cache directory.
func runArgs(t *testing.T, env *Environment, args ...string) int {
	t.Helper()

	args = append([]string{"--log-file", filepath.Join(t.TempDir(), "debug.log")}, args...)
	flags, positional, err := parseFlags(args)
	if err != nil {
		t.Fatalf("parseFlags(%v) error = %v", args, err)
	}
	return run(context.Background(), flags, positional, env)
}

func writeFixture(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
