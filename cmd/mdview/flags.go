package main

import (
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdview/internal/config"
	"github.com/alnah/go-mdview/internal/fileutil"
)

// cliFlags holds all command-line flags.
type cliFlags struct {
	config    string
	output    string
	watch     bool
	stdin     bool
	name      string
	style     string
	assetPath string
	highlight string // chroma style; set to the default style by a bare --highlight
	rawHTML   bool
	logFile   string
	logLevel  string
	quiet     bool
	verbose   bool
	version   bool
	help      bool

	// changed records flags given explicitly, so only those override config.
	changed map[string]bool
}

// set reports whether the named flag was given on the command line.
func (f *cliFlags) set(name string) bool {
	return f.changed[name]
}

// parseFlags parses command-line flags and returns the positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdview", flag.ContinueOnError)
	f := &cliFlags{}

	// Input/output
	fs.StringVarP(&f.output, "output", "o", "", "write the page to a file (- = stdout)")
	fs.BoolVarP(&f.watch, "watch", "w", false, "reload the document when it changes")
	fs.BoolVar(&f.stdin, "stdin", false, "read markdown from standard input")
	fs.StringVar(&f.name, "name", "", "file name for --stdin content")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")

	// Rendering
	fs.StringVar(&f.style, "style", "", "style name or CSS file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding built-in assets")
	fs.StringVar(&f.highlight, "highlight", "", "highlight code blocks with a chroma style")
	fs.Lookup("highlight").NoOptDefVal = config.DefaultHighlightStyle
	fs.BoolVar(&f.rawHTML, "raw-html", false, "pass raw HTML through (trusted documents only)")

	// Logging
	fs.StringVar(&f.logFile, "log-file", "", "debug log path")
	fs.StringVar(&f.logLevel, "log-level", "", "debug log level: debug, info, warn, error")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress")

	fs.BoolVar(&f.version, "version", false, "show version")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	fs.Usage = func() { printUsage(os.Stderr) }
	fs.SortFlags = false

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	return f, fs.Args(), nil
}

// mergeFlags applies explicitly set flags over cfg. CLI wins.
func mergeFlags(f *cliFlags, cfg *config.Config) {
	if f.set("style") {
		if isCSSPath(f.style) {
			cfg.Style.File = f.style
		} else {
			cfg.Style.Name = f.style
			cfg.Style.File = ""
		}
	}
	if f.set("asset-path") {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.set("highlight") {
		cfg.Render.Highlight = true
		if f.highlight != "" {
			cfg.Render.HighlightStyle = f.highlight
		}
	}
	if f.set("raw-html") {
		cfg.Render.RawHTML = f.rawHTML
	}
	if f.set("log-file") {
		cfg.Log.Path = f.logFile
	}
	if f.set("log-level") {
		cfg.Log.Level = f.logLevel
	}
}

// isCSSPath reports whether a --style value names a file rather than a style.
func isCSSPath(s string) bool {
	return fileutil.IsFilePath(s) || strings.EqualFold(filepath.Ext(s), ".css")
}
