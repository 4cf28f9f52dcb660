package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/config"
)

// windowDisplay is a Display the user closes. Wait blocks until then.
// Requests delivers documents the user opens from inside the window.
type windowDisplay interface {
	mdview.Display
	Wait(ctx context.Context) error
	Requests() <-chan mdview.OpenRequest
}

// Compile-time interface implementation check.
var _ windowDisplay = (*mdview.BrowserDisplay)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O streams and the window factory.
type Environment struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	NewDisplay func(cfg *config.Config, logger *slog.Logger) windowDisplay
}

// DefaultEnv returns the production environment backed by a browser window.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		NewDisplay: newBrowserDisplay,
	}
}

func newBrowserDisplay(cfg *config.Config, logger *slog.Logger) windowDisplay {
	return mdview.NewBrowserDisplay(
		mdview.WithWindowSize(cfg.Window.Width, cfg.Window.Height),
		mdview.WithDisplayLogger(logger),
	)
}
