package main

// Notes:
// - Filesystem events are delivered asynchronously, so tests wait on channels
//   with generous timeouts rather than asserting exact timing.
// - Coalescing of bursts is not asserted by count: how many events a write
//   produces depends on the platform backend.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-mdview/internal/applog"
)

const (
	testDebounce    = 20 * time.Millisecond
	testEventWait   = 5 * time.Second
	testQuietPeriod = 300 * time.Millisecond
)

// startWatcher runs a watcher on path and returns a channel receiving one
// value per reload.
func startWatcher(t *testing.T, path string) (<-chan struct{}, context.CancelFunc, <-chan error) {
	t.Helper()

	w, err := newDocumentWatcher(path, testDebounce, applog.Discard())
	if err != nil {
		t.Fatalf("newDocumentWatcher() error = %v", err)
	}

	reloads := make(chan struct{}, 16)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- w.Run(ctx, func(context.Context) { reloads <- struct{}{} })
	}()
	t.Cleanup(cancel)

	return reloads, cancel, done
}

func TestDocumentWatcher_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.md", []byte("# One\n"))
	reloads, _, _ := startWatcher(t, doc)

	if err := os.WriteFile(doc, []byte("# Two\n"), 0o644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	select {
	case <-reloads:
	case <-time.After(testEventWait):
		t.Fatal("no reload after writing the document")
	}
}

func TestDocumentWatcher_ReloadsOnReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.md", []byte("# One\n"))
	reloads, _, _ := startWatcher(t, doc)

	// Save the way many editors do: write elsewhere, then rename over.
	tmp := writeFixture(t, dir, ".doc.md.swp", []byte("# Two\n"))
	if err := os.Rename(tmp, doc); err != nil {
		t.Fatalf("renaming over document: %v", err)
	}

	select {
	case <-reloads:
	case <-time.After(testEventWait):
		t.Fatal("no reload after replacing the document")
	}
}

func TestDocumentWatcher_IgnoresSiblings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.md", []byte("# One\n"))
	reloads, _, _ := startWatcher(t, doc)

	writeFixture(t, dir, "other.md", []byte("x"))

	select {
	case <-reloads:
		t.Fatal("reload triggered by another file")
	case <-time.After(testQuietPeriod):
	}
}

func TestDocumentWatcher_StopsOnCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := writeFixture(t, dir, "doc.md", []byte("x"))
	_, cancel, done := startWatcher(t, doc)

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(testEventWait):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewDocumentWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone", "doc.md")
	if _, err := newDocumentWatcher(path, testDebounce, applog.Discard()); err == nil {
		t.Error("newDocumentWatcher() expected error for a missing directory")
	}
}
