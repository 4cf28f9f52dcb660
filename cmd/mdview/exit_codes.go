package main

import (
	"errors"
	"os"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/applog"
	"github.com/alnah/go-mdview/internal/config"
)

// Exit codes for the mdview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Page shown or written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or assets
	ExitIO      = 3 // Document or output file errors
	ExitBrowser = 4 // Browser/window errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdview.ErrBrowserConnect) ||
		errors.Is(err, mdview.ErrPageCreate) ||
		errors.Is(err, mdview.ErrPageLoad) {
		return ExitBrowser
	}

	// Usage/config/asset errors (exit 2). Checked before I/O: a missing
	// config file is a usage problem, not a document problem.
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, applog.ErrInvalidLevel) ||
		errors.Is(err, mdview.ErrUnknownHighlightStyle) ||
		errors.Is(err, mdview.ErrStyleNotFound) ||
		errors.Is(err, mdview.ErrTemplateNotFound) ||
		errors.Is(err, mdview.ErrInvalidAssetPath) ||
		errors.Is(err, ErrStdinWithArgs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdview.ErrEmptyPath) ||
		errors.Is(err, mdview.ErrDocumentNotFound) ||
		errors.Is(err, mdview.ErrNotRegularFile) ||
		errors.Is(err, mdview.ErrReadDocument) ||
		errors.Is(err, mdview.ErrDecodeDocument) ||
		errors.Is(err, ErrReadStdin) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
