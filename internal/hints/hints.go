// Package hints suggests a next step for the errors users hit most often.
//
// Every function returns either "" or a suffix of the form "\n  hint: ...",
// ready to append to the printed error.
package hints

import (
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-mdview/internal/fileutil"
)

// IsInContainer reports whether the process runs in a Docker-like container.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// goos is swapped in tests.
var goos = runtime.GOOS

// ciVariables are set by the CI services whose runners lack a sandbox.
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

// suggestions accumulates advice joined into one hint line.
type suggestions []string

func (s *suggestions) add(when bool, advice string) {
	if when {
		*s = append(*s, advice)
	}
}

func (s suggestions) String() string {
	return format(strings.Join(s, "; "))
}

// ForBrowserConnect explains why Chrome may have failed to start.
func ForBrowserConnect() string {
	var s suggestions

	s.add((inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1",
		"set ROD_NO_SANDBOX=1 for Docker/CI")
	s.add(os.Getenv("ROD_BROWSER_BIN") == "",
		"set ROD_BROWSER_BIN to use a specific Chrome")
	s.add(needsDisplayServer() && !hasDisplay(),
		"no display found; use --output to write the page instead")

	return s.String()
}

func inCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// needsDisplayServer is true on X11/Wayland platforms.
func needsDisplayServer() bool {
	return goos != "windows" && goos != "darwin"
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// ForConfigNotFound points at --config, and at the per-user location among
// searched when there is one.
func ForConfigNotFound(searched []string) string {
	advice := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(strings.ReplaceAll(p, `\`, "/"), "/go-mdview/") {
			return format(advice + " or create " + p)
		}
	}
	return format(advice)
}

// ForDocumentNotFound addresses the usual quoting mistakes.
func ForDocumentNotFound(path string) string {
	if strings.ContainsAny(path, `"'`) {
		return format("remove the quotes around the path")
	}
	return format("quote paths that contain spaces, or check the working directory")
}

func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func ForHighlightStyle() string {
	return format("see https://xyproto.github.io/splash/docs/ for chroma style names")
}

func format(advice string) string {
	if advice == "" {
		return ""
	}
	return "\n  hint: " + advice
}
