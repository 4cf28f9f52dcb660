package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength = 200
	MaxNameLength  = 100  // style and highlight style names
	MaxPathLength  = 4096 // PATH_MAX on Linux
)

// Window size bounds, in CSS pixels.
const (
	MinWindowSize = 200
	MaxWindowSize = 10000
)

// Defaults applied by DefaultConfig.
const (
	DefaultWindowWidth    = 1200
	DefaultWindowHeight   = 900
	DefaultWindowTitle    = "Markdown Viewer"
	DefaultStyleName      = "github"
	DefaultHighlightStyle = "github"
	DefaultLogLevel       = "info"
)

// appDirName is the directory name used under user config and cache dirs.
const appDirName = "go-mdview"

// Config holds all configuration for the viewer.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Style  StyleConfig  `yaml:"style"`
	Assets AssetsConfig `yaml:"assets"`
	Render RenderConfig `yaml:"render"`
	Embed  EmbedConfig  `yaml:"embed"`
	Log    LogConfig    `yaml:"log"`
}

// WindowConfig defines the display window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"` // Base title; document titles append " - {name}"
}

// StyleConfig selects the page stylesheet.
type StyleConfig struct {
	Name string `yaml:"name"` // Name of a style in assets (without .css)
	File string `yaml:"file"` // Path to a CSS file, takes precedence over Name
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// RenderConfig defines Markdown rendering options.
type RenderConfig struct {
	Highlight      bool   `yaml:"highlight"`
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
	RawHTML        bool   `yaml:"rawHTML"`        // pass raw HTML blocks through
}

// EmbedConfig defines local image inlining options.
type EmbedConfig struct {
	MaxImageBytes int64 `yaml:"maxImageBytes"` // 0 = unlimited
}

// LogConfig defines the debug log.
type LogConfig struct {
	Path  string `yaml:"path"`  // Empty = default cache location
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks ranges, enumerations and field lengths.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Window.Width != 0 && (c.Window.Width < MinWindowSize || c.Window.Width > MaxWindowSize) {
		return fmt.Errorf("%w: window.width must be between %d and %d, got %d",
			ErrInvalidValue, MinWindowSize, MaxWindowSize, c.Window.Width)
	}
	if c.Window.Height != 0 && (c.Window.Height < MinWindowSize || c.Window.Height > MaxWindowSize) {
		return fmt.Errorf("%w: window.height must be between %d and %d, got %d",
			ErrInvalidValue, MinWindowSize, MaxWindowSize, c.Window.Height)
	}
	if err := validateFieldLength("window.title", c.Window.Title, MaxTitleLength); err != nil {
		return err
	}

	if err := validateFieldLength("style.name", c.Style.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.file", c.Style.File, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.highlightStyle", c.Render.HighlightStyle, MaxNameLength); err != nil {
		return err
	}

	if c.Embed.MaxImageBytes < 0 {
		return fmt.Errorf("%w: embed.maxImageBytes must not be negative, got %d",
			ErrInvalidValue, c.Embed.MaxImageBytes)
	}

	if err := validateFieldLength("log.path", c.Log.Path, MaxPathLength); err != nil {
		return err
	}
	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
			// valid
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)",
				ErrInvalidValue, c.Log.Level)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  DefaultWindowTitle,
		},
		Style:  StyleConfig{Name: DefaultStyleName},
		Render: RenderConfig{HighlightStyle: DefaultHighlightStyle},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile reads at most MaxInputSize+1 bytes of path, enough for
// decodeStrict to tell an oversized file from one at the limit.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return data, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-mdview/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if dir, err := UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// UserConfigDir returns the directory searched for named configs.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
