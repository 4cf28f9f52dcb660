package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	mdview "github.com/alnah/go-mdview"
	"github.com/alnah/go-mdview/internal/applog"
	"github.com/alnah/go-mdview/internal/assets"
	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrReadStdin     = errors.New("failed to read standard input")
	ErrWriteOutput   = errors.New("failed to write output")
	ErrStdinWithArgs = errors.New("--stdin cannot be combined with file arguments")
)

// stdoutOutput is the --output value that selects standard output.
const stdoutOutput = "-"

// run executes the command and returns its exit code.
func run(ctx context.Context, flags *cliFlags, args []string, env *Environment) int {
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "mdview %s\n", Version)
		return ExitSuccess
	}

	if err := runView(ctx, flags, args, env); err != nil {
		fmt.Fprintln(env.Stderr, "error: "+err.Error()+hintFor(err, flags, args))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// session holds what a single invocation needs after setup.
type session struct {
	flags  *cliFlags
	args   []string
	env    *Environment
	logger *slog.Logger
	viewer *mdview.Viewer
}

// runView loads config, builds the viewer and shows the first page, either
// in a window or written to --output.
func runView(ctx context.Context, flags *cliFlags, args []string, env *Environment) error {
	if flags.stdin && len(args) > 0 {
		return ErrStdinWithArgs
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	level, err := applog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := applog.New(cfg.Log.Path, level)
	logger.Info("starting", "version", Version, "args", args)

	viewer, err := mdview.NewViewer(viewerOptions(cfg, logger)...)
	if err != nil {
		logger.Error("viewer setup failed", "error", err)
		return err
	}

	s := &session{flags: flags, args: args, env: env, logger: logger, viewer: viewer}

	page, source, loadErr := s.initialPage(ctx)
	if flags.output != "" {
		return s.runOutput(ctx, page, source, loadErr)
	}
	return s.runWindow(ctx, cfg, page, source, loadErr)
}

// loadConfig returns the defaults or the named config, with flags applied.
func loadConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// viewerOptions maps config onto viewer options.
func viewerOptions(cfg *config.Config, logger *slog.Logger) []mdview.Option {
	opts := []mdview.Option{
		mdview.WithLogger(logger),
		mdview.WithTitle(cfg.Window.Title),
		mdview.WithAssetPath(cfg.Assets.BasePath),
		mdview.WithMaxImageBytes(cfg.Embed.MaxImageBytes),
		mdview.WithStyle(styleInput(cfg.Style)),
	}
	if cfg.Render.Highlight {
		opts = append(opts, mdview.WithHighlighting(cfg.Render.HighlightStyle))
	}
	if cfg.Render.RawHTML {
		opts = append(opts, mdview.WithRawHTML())
	}
	return opts
}

// styleInput returns the style file when set, else the style name.
// A bare file name gets a ./ prefix so it is read as a path.
func styleInput(s config.StyleConfig) string {
	if s.File == "" {
		return s.Name
	}
	if fileutil.IsFilePath(s.File) {
		return s.File
	}
	return "." + string(filepath.Separator) + s.File
}

// initialPage builds the first page to show. On a load failure it returns
// the error page along with the error. source is the document path to
// watch, empty when there is none.
func (s *session) initialPage(ctx context.Context) (page *mdview.Page, source string, err error) {
	if s.flags.stdin {
		content, err := io.ReadAll(s.env.Stdin)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrReadStdin, err)
			return s.viewer.ErrorPage(err), "", err
		}
		page, err := s.viewer.LoadDropped(ctx, string(content), s.flags.name)
		if err != nil {
			return s.viewer.ErrorPage(err), "", err
		}
		s.progress("Rendered %s from stdin", page.Title)
		return page, "", nil
	}

	path := resolveStartupFile(s.args)
	if path == "" {
		page, err := s.viewer.Landing()
		if err != nil {
			return s.viewer.ErrorPage(err), "", err
		}
		if len(s.args) > 0 {
			s.logger.Warn("no file found in arguments", "args", s.args)
			return page, "", fmt.Errorf("%w: %s", mdview.ErrDocumentNotFound, strings.Join(s.args, " "))
		}
		return page, "", nil
	}

	page, err = s.viewer.LoadFile(ctx, path)
	if err != nil {
		return s.viewer.ErrorPage(err), path, err
	}
	s.progress("Rendered %s", page.Source)
	return page, page.Source, nil
}

// runOutput writes the page to --output. The load error, if any, is the
// command's result unless --watch keeps the command running.
func (s *session) runOutput(ctx context.Context, page *mdview.Page, source string, loadErr error) error {
	out := s.newOutput()
	if err := out.Show(ctx, page); err != nil {
		return err
	}

	if !s.flags.watch {
		return loadErr
	}
	if source == "" {
		s.warn("--watch ignored: no document file to watch")
		return loadErr
	}
	if loadErr != nil {
		s.warn(loadErr.Error())
	}
	return ignoreCanceled(s.watch(ctx, source, out))
}

// runWindow shows the page in a window and blocks until it is closed or
// ctx is done. Load failures are shown in the window, not returned.
func (s *session) runWindow(ctx context.Context, cfg *config.Config, page *mdview.Page, source string, loadErr error) error {
	display := s.env.NewDisplay(cfg, s.logger)
	defer func() {
		if err := display.Close(); err != nil {
			s.logger.Warn("closing display", "error", err)
		}
	}()

	if err := display.Show(ctx, page); err != nil {
		s.logger.Error("failed to show page", "error", err)
		return ignoreCanceled(err)
	}
	if loadErr != nil {
		s.warn(loadErr.Error() + hintFor(loadErr, s.flags, s.args))
	}

	if s.flags.watch && source == "" {
		s.warn("--watch ignored: no document file to watch")
	}

	loopCtx, stopLoop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Go(func() { s.serveWindow(loopCtx, display, source) })

	err := display.Wait(ctx)
	stopLoop()
	wg.Wait()

	s.logger.Info("window closed")
	return ignoreCanceled(err)
}

// serveWindow shows the documents the user opens from the window until ctx
// is done. With --watch it also reloads the current document on change;
// the watcher follows each newly opened file.
func (s *session) serveWindow(ctx context.Context, display windowDisplay, source string) {
	var wg sync.WaitGroup
	stopWatch := func() {}
	follow := func(path string) {
		stopWatch()
		wg.Wait()
		stopWatch = func() {}
		if !s.flags.watch || path == "" {
			return
		}
		watchCtx, cancel := context.WithCancel(ctx)
		stopWatch = cancel
		wg.Go(func() {
			if err := ignoreCanceled(s.watch(watchCtx, path, display)); err != nil {
				s.warn(err.Error())
			}
		})
	}
	defer func() {
		stopWatch()
		wg.Wait()
	}()

	follow(source)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-display.Requests():
			// Stop reloads of the previous document before replacing it.
			follow("")
			page, path := s.openRequested(ctx, req)
			if err := display.Show(ctx, page); err != nil {
				s.logger.Error("failed to show opened page", "error", err)
				continue
			}
			follow(path)
		}
	}
}

// openRequested loads a document opened from the window. A request with a
// path loads like a startup file; one without is rendered as dropped
// content. path is the file to watch, empty when there is none.
func (s *session) openRequested(ctx context.Context, req mdview.OpenRequest) (page *mdview.Page, path string) {
	if req.Path != "" {
		page, err := s.viewer.LoadFile(ctx, req.Path)
		if err != nil {
			s.warn(err.Error())
			return s.viewer.ErrorPage(err), req.Path
		}
		s.progress("Rendered %s", page.Source)
		return page, page.Source
	}

	page, err := s.viewer.LoadDropped(ctx, req.Content, req.Name)
	if err != nil {
		s.warn(err.Error())
		return s.viewer.ErrorPage(err), ""
	}
	s.progress("Rendered dropped %s", page.Title)
	return page, ""
}

// watch re-renders source on every change and shows the result on d.
// Reload failures are shown as the error page.
func (s *session) watch(ctx context.Context, source string, d mdview.Display) error {
	w, err := newDocumentWatcher(source, defaultDebounce, s.logger)
	if err != nil {
		return err
	}

	s.progress("Watching %s", source)
	return w.Run(ctx, func(ctx context.Context) {
		page, err := s.viewer.LoadFile(ctx, source)
		if err != nil {
			s.warn(err.Error())
			page = s.viewer.ErrorPage(err)
		}
		if err := d.Show(ctx, page); err != nil {
			s.logger.Error("failed to show reloaded page", "error", err)
			return
		}
		s.progress("Reloaded %s", source)
	})
}

// newOutput returns the display behind --output.
func (s *session) newOutput() mdview.Display {
	if s.flags.output == stdoutOutput {
		return &outputDisplay{w: mdview.NewWriterDisplay(s.env.Stdout)}
	}
	return &outputDisplay{path: s.flags.output}
}

// progress prints a status line when --verbose is set.
func (s *session) progress(format string, args ...any) {
	if s.flags.verbose && !s.flags.quiet {
		fmt.Fprintf(s.env.Stderr, format+"\n", args...)
	}
}

// warn prints a non-fatal problem unless --quiet is set.
func (s *session) warn(msg string) {
	if !s.flags.quiet {
		fmt.Fprintln(s.env.Stderr, "warning: "+msg)
	}
}

// outputDisplay writes pages to a file, replacing it atomically, or to a
// WriterDisplay when w is set.
type outputDisplay struct {
	path string
	w    *mdview.WriterDisplay
}

var _ mdview.Display = (*outputDisplay)(nil)

func (d *outputDisplay) Show(ctx context.Context, page *mdview.Page) error {
	if d.w != nil {
		if err := d.w.Show(ctx, page); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if page == nil {
		return mdview.ErrNilPage
	}
	if err := fileutil.ReplaceFile(d.path, page.HTML); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, d.path, err)
	}
	return nil
}

func (d *outputDisplay) Close() error {
	return nil
}

// ignoreCanceled treats cancellation as a normal shutdown.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, flags *cliFlags, args []string) string {
	switch {
	case errors.Is(err, mdview.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths(flags.config))
	case errors.Is(err, mdview.ErrDocumentNotFound):
		return hints.ForDocumentNotFound(strings.Join(args, " "))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, mdview.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.BuiltinStyles())
	case errors.Is(err, mdview.ErrUnknownHighlightStyle):
		return hints.ForHighlightStyle()
	default:
		return ""
	}
}

// configSearchPaths lists where a config name is looked up.
func configSearchPaths(name string) []string {
	if name == "" || fileutil.IsFilePath(name) {
		return nil
	}

	paths := []string{name + ".yaml", name + ".yml"}
	if dir, err := config.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, name+".yaml"), filepath.Join(dir, name+".yml"))
	}
	return paths
}
