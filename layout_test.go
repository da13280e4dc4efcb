package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	t.Parallel()

	l := DefaultLayout()
	assert.Equal(t, "notion-pet-offline", l.Name)
	assert.Equal(t, []string{"index.html", "style.css", "script.js"}, l.Files)
	assert.Equal(t, []string{"assets", "fonts"}, l.Directories)
	assert.Equal(t, "notion-pet-offline.zip", l.FileName())
	require.NoError(t, l.Validate())

	// Mutating one copy must not leak into the next.
	l.Files[0] = "changed.html"
	assert.Equal(t, "index.html", DefaultLayout().Files[0])
}

func TestWithLayout_Copies(t *testing.T) {
	t.Parallel()

	l := Layout{Files: []string{"a.html"}}
	cfg := newBuildConfig([]Option{WithLayout(l)})
	l.Files[0] = "b.html"
	assert.Equal(t, []string{"a.html"}, cfg.layout.Files)
}

func TestLayout_FileNameDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notion-pet-offline.zip", Layout{}.FileName())
	assert.Equal(t, "site.zip", Layout{Name: "site"}.FileName())
}

func TestLayout_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layout Layout
		ok     bool
	}{
		{"empty", Layout{}, true},
		{"plain names", Layout{Files: []string{"a.html"}, Directories: []string{"img"}}, true},
		{"dotfile", Layout{Files: []string{".nojekyll"}}, true},
		{"nested file", Layout{Files: []string{"a/b.html"}}, false},
		{"backslash", Layout{Files: []string{`a\b.html`}}, false},
		{"dot", Layout{Directories: []string{"."}}, false},
		{"dotdot", Layout{Directories: []string{".."}}, false},
		{"empty name", Layout{Files: []string{""}}, false},
		{"absolute", Layout{Directories: []string{"/etc"}}, false},
		{"duplicate across kinds", Layout{Files: []string{"x"}, Directories: []string{"x"}}, false},
		{"bundle name with slash", Layout{Name: "dist/site"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.layout.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLayout)
			}
		})
	}
}

func TestParseLayout(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout([]byte("name: site\nfiles: [app.html]\n"))
	require.NoError(t, err)
	assert.Equal(t, "site", l.Name)
	assert.Equal(t, []string{"app.html"}, l.Files)
	assert.Equal(t, []string{"assets", "fonts"}, l.Directories, "absent keys keep defaults")
}

func TestParseLayout_Empty(t *testing.T) {
	t.Parallel()

	l, err := ParseLayout(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
}

func TestParseLayout_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParseLayout([]byte("dirs: [assets]\n"))
	require.Error(t, err, "unknown keys are rejected")

	_, err = ParseLayout([]byte("files: [../secret]\n"))
	require.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ParseLayout([]byte("files: {a: b}\n"))
	require.Error(t, err)
}

func TestLoadLayout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directories: [static]\n"), 0o644))

	l, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"static"}, l.Directories)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
