// Package testutil builds source trees and reads bundles back for tests.
package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under root. Keys are slash-separated paths relative
// to root; a key ending in "/" creates an empty directory.
func WriteTree(tb testing.TB, root string, files map[string][]byte) {
	tb.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(tb, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, data, 0o644))
	}
}

// SiteFiles returns a minimal offline site: three root files, one image, and
// one font, 167 bytes in total.
func SiteFiles() map[string][]byte {
	return map[string][]byte{
		"index.html":     []byte("<p>hello</p>"),
		"style.css":      []byte("p{ }\n"),
		"script.js":      {},
		"assets/img.png": bytes.Repeat([]byte{0x89}, 100),
		"fonts/a.ttf":    bytes.Repeat([]byte{0x00}, 50),
	}
}

// Site writes SiteFiles into a fresh temporary directory and returns it.
func Site(tb testing.TB) string {
	tb.Helper()
	root := tb.TempDir()
	WriteTree(tb, root, SiteFiles())
	return root
}

// ReadBundle returns the entry names of the ZIP at path in archive order and
// the content of every file entry.
func ReadBundle(tb testing.TB, path string) ([]string, map[string][]byte) {
	tb.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(tb, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	contents := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		require.NoError(tb, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(tb, err)
		contents[f.Name] = data
	}
	return names, contents
}

// Extract unpacks the ZIP at path into dest.
func Extract(tb testing.TB, path, dest string) {
	tb.Helper()
	names, contents := ReadBundle(tb, path)
	for _, name := range names {
		target := filepath.Join(dest, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(tb, os.MkdirAll(target, 0o755))
			continue
		}
		require.NoError(tb, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(tb, os.WriteFile(target, contents[name], 0o644))
	}
}

// ReadTree returns the content of every regular file under root keyed by
// slash-separated relative path.
func ReadTree(tb testing.TB, root string) map[string][]byte {
	tb.Helper()
	out := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = data
		return nil
	})
	require.NoError(tb, err)
	return out
}
