package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is the bundle name used when a Layout leaves Name empty.
const DefaultName = "notion-pet-offline"

// Layout lists the top-level entries a bundle must contain.
//
// Files are added in listed order, then Directories in listed order.
type Layout struct {
	// Name is the bundle name; the default output file is Name + ".zip".
	Name string `yaml:"name"`

	// Files are required regular files directly under the root.
	Files []string `yaml:"files"`

	// Directories are required directories directly under the root.
	// Each is added recursively.
	Directories []string `yaml:"directories"`
}

// DefaultLayout returns the layout of the offline web bundle: the page, its
// stylesheet and script, plus the assets and fonts directories.
// Each call returns a fresh copy.
func DefaultLayout() Layout {
	return Layout{
		Name:        DefaultName,
		Files:       []string{"index.html", "style.css", "script.js"},
		Directories: []string{"assets", "fonts"},
	}
}

// FileName returns the default archive file name for the layout.
func (l Layout) FileName() string {
	name := l.Name
	if name == "" {
		name = DefaultName
	}
	return name + ".zip"
}

// Validate reports whether every listed name is a single, plain path
// element and no name is listed twice.
func (l Layout) Validate() error {
	if strings.ContainsAny(l.Name, `/\`) {
		return fmt.Errorf("%w: bundle name %q contains a path separator", ErrInvalidLayout, l.Name)
	}
	seen := make(map[string]struct{}, len(l.Files)+len(l.Directories))
	for _, names := range [][]string{l.Files, l.Directories} {
		for _, name := range names {
			if !isTopLevelName(name) {
				return fmt.Errorf("%w: %q is not a top-level name", ErrInvalidLayout, name)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: %q listed more than once", ErrInvalidLayout, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

func (l Layout) clone() Layout {
	return Layout{
		Name:        l.Name,
		Files:       append([]string(nil), l.Files...),
		Directories: append([]string(nil), l.Directories...),
	}
}

// entries lists the required files followed by the required directories, in
// the order they are written to the archive.
func (l Layout) entries() []string {
	names := make([]string, 0, len(l.Files)+len(l.Directories))
	names = append(names, l.Files...)
	return append(names, l.Directories...)
}

func isTopLevelName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || filepath.IsAbs(name) {
		return false
	}
	return filepath.Base(name) == name
}

// ParseLayout decodes a YAML layout document. Keys that are absent keep
// their DefaultLayout values; unknown keys are rejected.
//
//	name: my-site
//	files: [index.html, app.js]
//	directories: [static]
func ParseLayout(data []byte) (Layout, error) {
	l := DefaultLayout()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// LoadLayout reads and parses a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}
