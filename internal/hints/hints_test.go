package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer and goos variables
// These are acceptable gaps: we test observable behavior through environment manipulation.

import (
	"strings"
	"testing"
)

// stubEnvironment pins the detection hooks for one test.
func stubEnvironment(t *testing.T, inContainer bool, os string) {
	t.Helper()

	origContainer, origGOOS := IsInContainer, goos
	t.Cleanup(func() { IsInContainer, goos = origContainer, origGOOS })
	IsInContainer = func() bool { return inContainer }
	goos = os
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment detection
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		inContainer bool
		goos        string
		env         map[string]string
		want        []string
		wantAbsent  []string
	}{
		{
			name: "CI without sandbox flag",
			goos: "darwin",
			env:  map[string]string{"CI": "true", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			want: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
		{
			name:        "container without sandbox flag",
			inContainer: true,
			goos:        "darwin",
			env:         map[string]string{"CI": "", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			want:        []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "sandbox already disabled",
			inContainer: true,
			goos:        "darwin",
			env:         map[string]string{"CI": "", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": ""},
			want:        []string{"ROD_BROWSER_BIN"},
			wantAbsent:  []string{"ROD_NO_SANDBOX"},
		},
		{
			name:       "linux without display",
			goos:       "linux",
			env:        map[string]string{"CI": "", "ROD_BROWSER_BIN": "/usr/bin/chromium", "DISPLAY": "", "WAYLAND_DISPLAY": ""},
			want:       []string{"--output"},
			wantAbsent: []string{"ROD_BROWSER_BIN"},
		},
		{
			name:       "linux with wayland",
			goos:       "linux",
			env:        map[string]string{"CI": "", "ROD_BROWSER_BIN": "/usr/bin/chromium", "DISPLAY": "", "WAYLAND_DISPLAY": "wayland-0"},
			wantAbsent: []string{"--output", "hint:"},
		},
		{
			name:       "windows never needs a display variable",
			goos:       "windows",
			env:        map[string]string{"CI": "", "ROD_BROWSER_BIN": `C:\chrome.exe`, "DISPLAY": ""},
			wantAbsent: []string{"hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubEnvironment(t, tt.inContainer, tt.goos)
			for _, name := range ciVariables {
				t.Setenv(name, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			hint := ForBrowserConnect()

			if len(tt.want) > 0 && !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("ForBrowserConnect() = %q, want hint prefix", hint)
			}
			for _, want := range tt.want {
				if !strings.Contains(hint, want) {
					t.Errorf("ForBrowserConnect() = %q, want to contain %q", hint, want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(hint, absent) {
					t.Errorf("ForBrowserConnect() = %q, should not contain %q", hint, absent)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		absent   string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
			absent:   "create",
		},
		{
			name:     "suggests user config path",
			paths:    []string{"./viewer.yaml", "/home/u/.config/go-mdview/viewer.yaml"},
			contains: "create /home/u/.config/go-mdview/viewer.yaml",
		},
		{
			name:     "windows user config path",
			paths:    []string{`C:\Users\u\AppData\Roaming\go-mdview\viewer.yaml`},
			contains: `create C:\Users\u\AppData\Roaming\go-mdview\viewer.yaml`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("ForConfigNotFound() = %q, want to contain %q", hint, tt.contains)
			}
			if tt.absent != "" && strings.Contains(hint, tt.absent) {
				t.Errorf("ForConfigNotFound() = %q, should not contain %q", hint, tt.absent)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForDocumentNotFound
// ---------------------------------------------------------------------------

func TestForDocumentNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForDocumentNotFound(`"my notes.md"`); !strings.Contains(hint, "quotes") {
		t.Errorf("ForDocumentNotFound() = %q, want quote advice", hint)
	}
	if hint := ForDocumentNotFound("my notes.md"); !strings.Contains(hint, "spaces") {
		t.Errorf("ForDocumentNotFound() = %q, want spaces advice", hint)
	}
}

// ---------------------------------------------------------------------------
// TestForStyleNotFound
// ---------------------------------------------------------------------------

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", hint)
	}
	if hint := ForStyleNotFound([]string{"github", "github-dark"}); !strings.Contains(hint, "github, github-dark") {
		t.Errorf("ForStyleNotFound() = %q, want style list", hint)
	}
}

// ---------------------------------------------------------------------------
// TestFormat_Consistency
// ---------------------------------------------------------------------------

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := []string{
		ForOutputDirectory(),
		ForHighlightStyle(),
		ForDocumentNotFound("x.md"),
		ForConfigNotFound(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
