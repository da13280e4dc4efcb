// Package archive writes bundle entries into a deflate-compressed ZIP
// container and keeps running totals of what was written.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/meigma/bundle/internal/fileio"
)

// ErrInvalidLevel is returned for deflate levels outside the supported range.
var ErrInvalidLevel = errors.New("archive: invalid compression level")

// Stats summarizes the entries written so far.
type Stats struct {
	// Entries is the total number of archive entries, directories included.
	Entries int

	// Files is the number of regular file entries.
	Files int

	// Dirs is the number of directory marker entries.
	Dirs int

	// Bytes is the total uncompressed size of all file entries.
	Bytes uint64

	// Written is the number of archive bytes emitted to the destination.
	// It is only final after Close.
	Written uint64
}

// Writer appends entries to a ZIP archive. Every entry uses the deflate
// method; directory markers are zero-length entries whose names end in "/".
//
// A Writer is not safe for concurrent use.
type Writer struct {
	zw      *zip.Writer
	out     *fileio.CountingWriter
	modTime time.Time
	buf     []byte
	bytes   fileio.Counter
	stats   Stats
}

// NewWriter returns a Writer emitting to w with the given deflate level.
//
// If modTime is non-zero it is stamped on every entry, otherwise each entry
// carries its source modification time.
func NewWriter(w io.Writer, level int, modTime time.Time) (*Writer, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}

	out := &fileio.CountingWriter{W: w}
	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, level)
	})

	return &Writer{
		zw:      zw,
		out:     out,
		modTime: modTime,
		buf:     make([]byte, fileio.DefaultBufferSize),
	}, nil
}

// EntryName converts a root-relative host path to an archive entry name.
func EntryName(rel string) string {
	return filepath.ToSlash(rel)
}

// Dir writes a zero-length directory marker named rel + "/".
func (w *Writer) Dir(rel string, info fs.FileInfo) error {
	hdr := w.header(EntryName(rel)+"/", info)
	if _, err := w.zw.CreateHeader(hdr); err != nil {
		return fmt.Errorf("write directory entry %s: %w", rel, err)
	}
	w.stats.Entries++
	w.stats.Dirs++
	return nil
}

// File copies the contents of r into a new entry named rel.
// r must yield exactly info.Size() bytes; a file that shrank or grew since
// info was taken fails with fileio.ErrChanged.
func (w *Writer) File(ctx context.Context, rel string, info fs.FileInfo, r io.Reader) (int64, error) {
	hdr := w.header(EntryName(rel), info)
	ew, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return 0, fmt.Errorf("write file entry %s: %w", rel, err)
	}

	n, err := fileio.CopyExact(ctx, ew, r, info.Size(), w.buf)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", EntryName(rel), err)
	}
	if err := w.bytes.Add(n); err != nil {
		return 0, err
	}
	w.stats.Entries++
	w.stats.Files++
	return n, nil
}

// Close finishes the archive by writing the central directory.
// It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// Stats returns the totals for entries written so far.
func (w *Writer) Stats() Stats {
	s := w.stats
	s.Bytes = uint64(w.bytes)
	s.Written = uint64(w.out.N)
	return s
}

func (w *Writer) header(name string, info fs.FileInfo) *zip.FileHeader {
	hdr := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	if info != nil {
		hdr.SetMode(info.Mode())
		hdr.Modified = info.ModTime()
	}
	if !w.modTime.IsZero() {
		hdr.Modified = w.modTime
	}
	return hdr
}
