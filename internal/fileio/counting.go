package fileio

import (
	"fmt"
	"io"
	"math"
)

// Counter is a byte total that fails instead of wrapping around.
type Counter uint64

// Add adds n to c. It returns ErrOverflow, leaving c unchanged, if the sum
// does not fit.
func (c *Counter) Add(n int64) error {
	if n < 0 {
		return fmt.Errorf("negative byte count: %d", n)
	}
	if uint64(*c) > math.MaxUint64-uint64(n) {
		return ErrOverflow
	}
	*c += Counter(n)
	return nil
}

// CountingWriter counts the bytes the archive writer emits to W.
type CountingWriter struct {
	W io.Writer
	N Counter
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	if cerr := cw.N.Add(int64(n)); cerr != nil {
		return n, cerr
	}
	return n, err
}
