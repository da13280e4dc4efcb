package write

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/bundle/internal/fileio"
)

func openWithInfo(t *testing.T, path string) (*os.File, fs.FileInfo) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	info, err := f.Stat()
	require.NoError(t, err)
	return f, info
}

func TestCheckFileUnchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(path, []byte("body{}"), 0o644))
	f, before := openWithInfo(t, path)

	require.NoError(t, CheckFileUnchanged(f, "style.css", before, true))

	require.NoError(t, os.WriteFile(path, []byte("body{color:red}"), 0o644))
	err := CheckFileUnchanged(f, "style.css", before, true)
	require.ErrorIs(t, err, fileio.ErrChanged)
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "style.css", pathErr.Path)
	assert.Contains(t, err.Error(), "size")

	assert.NoError(t, CheckFileUnchanged(f, "style.css", before, false))
}

func TestCheckFileUnchanged_ModTime(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	f, before := openWithInfo(t, path)

	later := before.ModTime().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	err := CheckFileUnchanged(f, "script.js", before, true)
	require.ErrorIs(t, err, fileio.ErrChanged)
	assert.Contains(t, err.Error(), "modification time")
}

func TestCheckFileUnchanged_Permissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fonts", "a.ttf")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	f, before := openWithInfo(t, path)

	require.NoError(t, os.Chmod(path, 0o600))
	// Chmod leaves the mtime alone, so only permissions differ.
	err := CheckFileUnchanged(f, "fonts/a.ttf", before, true)
	require.ErrorIs(t, err, fileio.ErrChanged)
	assert.Contains(t, err.Error(), "fonts/a.ttf")
}

func TestValidateFileInfo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.ttf")
	b := filepath.Join(dir, "b.ttf")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	ai, err := os.Lstat(a)
	require.NoError(t, err)
	bi, err := os.Lstat(b)
	require.NoError(t, err)

	require.NoError(t, ValidateFileInfo("fonts/a.ttf", ai, ai, true))
	err = ValidateFileInfo("fonts/a.ttf", ai, bi, true)
	require.ErrorIs(t, err, fileio.ErrChanged)
	assert.Contains(t, err.Error(), "replaced")
	require.Error(t, ValidateFileInfo("fonts/a.ttf", nil, bi, true))
	assert.NoError(t, ValidateFileInfo("fonts/a.ttf", ai, bi, false))
}
