package main

// Notes:
// - exitCodeFor: we test the sentinel errors from mdview, config and applog,
//   plus wrapped errors to verify errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/applog"
	"github.com/alnah/go-mdview/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", mdview.ErrBrowserConnect, ExitBrowser},
		{"page create", mdview.ErrPageCreate, ExitBrowser},
		{"page load", mdview.ErrPageLoad, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", mdview.ErrBrowserConnect), ExitBrowser},

		// Usage/config errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"wrapped config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"invalid log level", applog.ErrInvalidLevel, ExitUsage},
		{"unknown highlight style", mdview.ErrUnknownHighlightStyle, ExitUsage},
		{"style not found", mdview.ErrStyleNotFound, ExitUsage},
		{"template not found", mdview.ErrTemplateNotFound, ExitUsage},
		{"invalid asset path", mdview.ErrInvalidAssetPath, ExitUsage},
		{"stdin with args", ErrStdinWithArgs, ExitUsage},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"empty path", mdview.ErrEmptyPath, ExitIO},
		{"document not found", mdview.ErrDocumentNotFound, ExitIO},
		{"not regular file", mdview.ErrNotRegularFile, ExitIO},
		{"read document", mdview.ErrReadDocument, ExitIO},
		{"decode document", mdview.ErrDecodeDocument, ExitIO},
		{"read stdin", ErrReadStdin, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// General errors (exit 1)
		{"unknown error", errors.New("something went wrong"), ExitGeneral},
		{"page render", mdview.ErrPageRender, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitBrowser} {
		if code >= 126 {
			t.Errorf("custom exit code %d should be < 126", code)
		}
	}
}
