package mdview

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Display shows pages to the user. Show replaces whatever is currently
// displayed. Implementations must only be given fully built pages.
type Display interface {
	Show(ctx context.Context, page *Page) error
	Close() error
}

// Compile-time interface checks.
var (
	_ Display = (*WriterDisplay)(nil)
	_ Display = (*BrowserDisplay)(nil)
)

// WriterDisplay writes each page's HTML to an io.Writer.
// It backs non-interactive output such as files and stdout.
type WriterDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDisplay creates a WriterDisplay writing to w.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Show writes page.HTML to the underlying writer.
func (d *WriterDisplay) Show(ctx context.Context, page *Page) error {
	if page == nil {
		return ErrNilPage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := io.WriteString(d.w, page.HTML); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}

// Close is a no-op; the caller owns the writer.
func (d *WriterDisplay) Close() error {
	return nil
}
