package main

import (
	"strings"

	"github.com/alnah/go-mdview/internal/fileutil"
)

// resolveStartupFile returns the existing file named by args, or "" when none
// matches. Launchers split unquoted paths on spaces, so joined prefixes of
// args are tried before each argument on its own.
func resolveStartupFile(args []string) string {
	for i := range args {
		if candidate := cleanArg(strings.Join(args[:i+1], " ")); fileutil.FileExists(candidate) {
			return candidate
		}
	}

	for _, arg := range args {
		if candidate := cleanArg(arg); fileutil.FileExists(candidate) {
			return candidate
		}
	}

	return ""
}

func cleanArg(s string) string {
	return fileutil.TrimQuotes(strings.TrimSpace(s))
}
