package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// Kind is a category of asset: where it lives and what a miss is called.
type Kind struct {
	dir      string
	ext      string
	notFound error
}

// Asset kinds.
var (
	Style    = Kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	Template = Kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

// file returns the slash-separated path of name within an asset tree.
func (k Kind) file(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// AssetLoader loads stylesheets and page templates by name.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// Resolver looks assets up in an optional custom directory, then in the
// built-in set. Only a missing file falls through to the next layer; an
// invalid name or a read failure is returned as is.
type Resolver struct {
	layers    []fs.FS
	customDir string
}

// Compile-time interface check.
var _ AssetLoader = (*Resolver)(nil)

// NewResolver creates a Resolver. An empty customDir uses built-in assets only.
// Returns ErrInvalidBasePath if customDir is set but is not a readable directory.
func NewResolver(customDir string) (*Resolver, error) {
	r := &Resolver{}

	if customDir != "" {
		dir, err := openCustomDir(customDir)
		if err != nil {
			return nil, err
		}
		r.customDir = string(dir)
		r.layers = append(r.layers, dir)
	}

	r.layers = append(r.layers, builtin)
	return r, nil
}

// LoadStyle returns the CSS of the named style.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.Load(Style, name)
}

// LoadTemplate returns the source of the named page template.
func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.Load(Template, name)
}

// Load returns the named asset of kind k from the first layer that has it.
func (r *Resolver) Load(k Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	file := k.file(name)
	for _, layer := range r.layers {
		data, err := fs.ReadFile(layer, file)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, file, err)
		}
	}

	return "", fmt.Errorf("%w: %q", k.notFound, name)
}

// CustomDir returns the absolute custom asset directory, or "" without one.
func (r *Resolver) CustomDir() string {
	return r.customDir
}

// BuiltinStyles returns the names of the built-in styles, sorted.
func BuiltinStyles() []string {
	matches, err := fs.Glob(builtin, Style.file("*"))
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), Style.ext))
	}
	slices.Sort(names)
	return names
}

// rootedDir is a directory whose files are opened with os.OpenInRoot, so
// neither ".." nor a symlink can reach outside it.
type rootedDir string

func (d rootedDir) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := os.OpenInRoot(string(d), filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// openCustomDir validates dir and returns it as a rooted layer.
func openCustomDir(dir string) (rootedDir, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absDir)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absDir)
	}
	if _, err := os.ReadDir(absDir); err != nil {
		return "", fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return rootedDir(absDir), nil
}
