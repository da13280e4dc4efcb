package bundle

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/klauspost/compress/zip"
)

// Entry describes one record of a finished bundle.
type Entry struct {
	// Name is the archive entry name. Directory markers end in "/".
	Name string

	// Dir reports whether the entry is a directory marker.
	Dir bool

	// Size is the uncompressed size in bytes.
	Size uint64

	// CompressedSize is the stored size in bytes.
	CompressedSize uint64

	// Method is the ZIP compression method (8 for deflate, 0 for store).
	Method uint16

	// Mode is the recorded file mode.
	Mode fs.FileMode

	// ModTime is the recorded modification time.
	ModTime time.Time
}

// Inspect lists the entries of the bundle at path in archive order.
func Inspect(path string) ([]Entry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer zr.Close()

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		info := f.FileInfo()
		entries = append(entries, Entry{
			Name:           f.Name,
			Dir:            info.IsDir(),
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
			Mode:           f.Mode(),
			ModTime:        f.Modified,
		})
	}
	return entries, nil
}

// TotalSize returns the summed uncompressed size of entries.
func TotalSize(entries []Entry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Size
	}
	return total
}
