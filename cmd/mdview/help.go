package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdview [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a Markdown file with its local images and show it in a window.")
	fmt.Fprintln(w, "Without a file, a landing page is shown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Write the page to a file instead (- = stdout)")
	fmt.Fprintln(w, "  -w, --watch               Reload the document when it changes")
	fmt.Fprintln(w, "      --stdin               Read Markdown from standard input (no local images)")
	fmt.Fprintln(w, "      --name <s>            File name shown for --stdin content")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --style <name|path>   Style name or CSS file (default: github)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/ overrides")
	fmt.Fprintln(w, "      --highlight[=style]   Highlight code blocks (chroma style, default: github)")
	fmt.Fprintln(w, "      --raw-html            Pass raw HTML through (trusted documents only)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-file <path>     Debug log path (default: user cache dir)")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error (default: info)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome/Chromium binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 1 general, 2 usage/config, 3 I/O, 4 browser.")
}
