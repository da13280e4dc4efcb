// Package fileio copies source files into archive entries and counts the
// bytes that pass through.
package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrOverflow indicates a counter exceeded its maximum value.
	ErrOverflow = errors.New("counter overflow")

	// ErrChanged indicates a source file no longer matches what was recorded
	// for it when it was opened.
	ErrChanged = errors.New("file changed during bundle creation")
)

// DefaultBufferSize is the copy buffer size used when callers pass a nil buffer.
const DefaultBufferSize = 32 * 1024

// CopyExact copies exactly size bytes from src to dst, checking ctx before
// every read. If src ends early, or still has data once size bytes have been
// copied, it fails with ErrChanged.
func CopyExact(ctx context.Context, dst io.Writer, src io.Reader, size int64, buf []byte) (int64, error) {
	if size < 0 {
		return 0, fmt.Errorf("negative size: %d", size)
	}
	if len(buf) == 0 {
		buf = make([]byte, DefaultBufferSize)
	}

	var written int64
	for written < size {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		chunk := buf
		if rem := size - written; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		nr, er := src.Read(chunk)
		if nr > 0 {
			nw, ew := dst.Write(chunk[:nr])
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if errors.Is(er, io.EOF) && written < size {
				return written, fmt.Errorf("%w: expected %d bytes, got %d", ErrChanged, size, written)
			}
			if !errors.Is(er, io.EOF) {
				return written, er
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return written, err
	}

	// A file that grew still has bytes past size.
	var extra [1]byte
	n, err := io.ReadFull(src, extra[:])
	if n > 0 {
		return written, fmt.Errorf("%w: more than %d bytes", ErrChanged, size)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return written, err
	}
	return written, nil
}
