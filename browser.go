package mdview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/alnah/go-mdview/internal/fileutil"
	"github.com/alnah/go-mdview/internal/process"
)

// Display defaults.
const (
	DefaultWindowWidth  = 1200
	DefaultWindowHeight = 900
	defaultLoadTimeout  = 30 * time.Second
	defaultPollInterval = 500 * time.Millisecond

	// openBinding is the page function the templates call with
	// {name, content, picked} when a file is dropped or picked.
	openBinding = "mdviewOpen"
	// openQueueSize bounds requests waiting for the caller.
	openQueueSize = 4
)

// errNoFilePath means the browser could not tell where a picked file lives.
var errNoFilePath = errors.New("no path for picked file")

// DisplayOption configures a BrowserDisplay.
type DisplayOption func(*BrowserDisplay)

// WithWindowSize sets the window size in CSS pixels. Non-positive values
// keep the defaults.
func WithWindowSize(width, height int) DisplayOption {
	return func(d *BrowserDisplay) {
		if width > 0 {
			d.width = width
		}
		if height > 0 {
			d.height = height
		}
	}
}

// WithLoadTimeout bounds how long Show waits for a page to load.
func WithLoadTimeout(timeout time.Duration) DisplayOption {
	return func(d *BrowserDisplay) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDisplayLogger sets the logger for browser lifecycle events.
func WithDisplayLogger(l *slog.Logger) DisplayOption {
	return func(d *BrowserDisplay) {
		if l != nil {
			d.logger = l
		}
	}
}

// BrowserDisplay shows pages in a Chromium window driven by go-rod.
// The browser is launched lazily on the first Show. Rod downloads Chromium
// on first run if none is found; ROD_BROWSER_BIN selects a specific binary.
type BrowserDisplay struct {
	mu           sync.Mutex
	width        int
	height       int
	timeout      time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	pagePath string // temp file holding the current page
	cleanup  func()

	requests chan OpenRequest
}

// NewBrowserDisplay creates a BrowserDisplay. No browser is started until Show.
func NewBrowserDisplay(opts ...DisplayOption) *BrowserDisplay {
	d := &BrowserDisplay{
		width:        DefaultWindowWidth,
		height:       DefaultWindowHeight,
		timeout:      defaultLoadTimeout,
		pollInterval: defaultPollInterval,
		logger:       slog.New(slog.DiscardHandler),
		requests:     make(chan OpenRequest, openQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ensureBrowser lazily launches and connects to the browser.
func (d *BrowserDisplay) ensureBrowser() error {
	if d.browser != nil {
		return nil
	}

	l := launcher.New().
		Headless(false).
		Set(flags.Flag("window-size"), strconv.Itoa(d.width)+","+strconv.Itoa(d.height))

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	d.launcher = l
	d.browser = browser
	d.logger.Info("browser started", "pid", l.PID())
	return nil
}

// Show displays page in the window, opening the window on first use.
// The window title follows the page's <title>.
func (d *BrowserDisplay) Show(ctx context.Context, page *Page) error {
	if page == nil {
		return ErrNilPage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureBrowser(); err != nil {
		return err
	}
	if err := d.writePage(page.HTML); err != nil {
		return err
	}

	if d.page == nil {
		if err := d.openWindow(); err != nil {
			return err
		}
	}
	if err := d.page.Context(ctx).Navigate(fileURL(d.pagePath)); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := d.page.Context(ctx).Timeout(d.timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	d.logger.Info("page displayed", "title", page.Title)
	return nil
}

// openWindow creates the window on a blank page and binds openBinding
// before the first document loads.
func (d *BrowserDisplay) openWindow() error {
	p, err := d.browser.Page(proto.TargetCreateTarget{URL: "about:blank", NewWindow: true})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	d.page = p
	d.resizeWindow()

	// Expose also installs the function on every later navigation.
	if _, err := p.Expose(openBinding, d.openHandler(p)); err != nil {
		d.logger.Warn("opening files from the window is unavailable", "error", err)
	}
	return nil
}

// Requests delivers the documents the user drops on the window or picks
// with its Browse button. The channel is never closed.
func (d *BrowserDisplay) Requests() <-chan OpenRequest {
	return d.requests
}

// openHandler receives openBinding calls. A picked file is looked up by
// path so it loads with its images; a dropped one keeps only its content.
func (d *BrowserDisplay) openHandler(p *rod.Page) func(gson.JSON) (any, error) {
	return func(req gson.JSON) (any, error) {
		r, picked := openRequestFrom(req)
		if picked {
			path, err := pickedFilePath(p)
			if err != nil {
				d.logger.Debug("loading picked file by content", "name", r.Name, "error", err)
			}
			r.Path = path
		}
		d.queueOpen(r)
		return nil, nil
	}
}

// queueOpen hands r to the caller without blocking the page.
func (d *BrowserDisplay) queueOpen(r OpenRequest) {
	select {
	case d.requests <- r:
		d.logger.Info("open requested", "name", r.Name, "path", r.Path)
	default:
		d.logger.Warn("open request dropped, too many pending", "name", r.Name)
	}
}

// openRequestFrom decodes the argument of an openBinding call.
func openRequestFrom(req gson.JSON) (r OpenRequest, picked bool) {
	str := func(key string) string {
		v, _ := req.Get(key).Val().(string)
		return v
	}
	return OpenRequest{Name: str("name"), Content: str("content")}, req.Get("picked").Bool()
}

// pickedFilePath asks Chromium for the path of the File the page stored
// in window.mdviewPicked.
func pickedFilePath(p *rod.Page) (string, error) {
	obj, err := p.Evaluate(rod.Eval(`() => window.mdviewPicked`).ByObject())
	if err != nil {
		return "", err
	}
	if obj.ObjectID == "" {
		return "", errNoFilePath
	}
	defer func() { _ = proto.RuntimeReleaseObject{ObjectID: obj.ObjectID}.Call(p) }()

	info, err := proto.DOMGetFileInfo{ObjectID: obj.ObjectID}.Call(p)
	if err != nil {
		return "", err
	}
	if info.Path == "" {
		return "", errNoFilePath
	}
	return info.Path, nil
}

// writePage stores html in the display's temp file. The file is reused so
// reloads do not accumulate temp files.
func (d *BrowserDisplay) writePage(html string) error {
	if d.pagePath != "" {
		return fileutil.ReplaceFile(d.pagePath, html)
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return err
	}
	d.pagePath = path
	d.cleanup = cleanup
	return nil
}

// resizeWindow applies the configured size to the page's window.
// The launch flag only sizes the first window, so new windows are sized here.
func (d *BrowserDisplay) resizeWindow() {
	width, height := d.width, d.height
	err := d.page.SetWindow(&proto.BrowserBounds{
		Width:       &width,
		Height:      &height,
		WindowState: proto.BrowserWindowStateNormal,
	})
	if err != nil {
		d.logger.Warn("failed to size window", "error", err)
	}
}

// Wait blocks until the user closes the window, the browser exits, or ctx
// is done. It returns nil when nothing has been shown yet.
func (d *BrowserDisplay) Wait(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		if !d.isOpen() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// isOpen reports whether the display's window still exists.
func (d *BrowserDisplay) isOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser == nil || d.page == nil {
		return false
	}
	_, err := proto.TargetGetTargetInfo{TargetID: d.page.TargetID}.Call(d.browser)
	return err == nil
}

// Close closes the window and browser and removes the temp page file.
func (d *BrowserDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
		d.page = nil
	}
	if d.launcher != nil {
		process.KillProcessGroup(d.launcher.PID())
		d.launcher.Kill()
		d.launcher.Cleanup()
		d.launcher = nil
	}
	if d.cleanup != nil {
		d.cleanup()
		d.cleanup = nil
		d.pagePath = ""
	}
	return err
}

// fileURL converts an absolute filesystem path to a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive paths
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
