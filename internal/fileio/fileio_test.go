package fileio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyExact(t *testing.T) {
	t.Parallel()

	src := strings.Repeat("web asset ", 10_000)
	var dst bytes.Buffer

	n, err := CopyExact(context.Background(), &dst, strings.NewReader(src), int64(len(src)), make([]byte, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.String())
}

func TestCopyExact_Empty(t *testing.T) {
	t.Parallel()

	var dst bytes.Buffer
	n, err := CopyExact(context.Background(), &dst, strings.NewReader(""), 0, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCopyExact_SizeChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		size int64
	}{
		{"shrunk", "abc", 5},
		{"grew", "abcdef", 3},
		{"grew from empty", "x", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var dst bytes.Buffer
			_, err := CopyExact(context.Background(), &dst, strings.NewReader(tt.src), tt.size, nil)
			require.ErrorIs(t, err, ErrChanged)
			assert.LessOrEqual(t, int64(dst.Len()), tt.size)
		})
	}
}

func TestCopyExact_NegativeSize(t *testing.T) {
	t.Parallel()

	_, err := CopyExact(context.Background(), io.Discard, strings.NewReader(""), -1, nil)
	require.Error(t, err)
}

func TestCopyExact_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	n, err := CopyExact(ctx, &dst, strings.NewReader("abc"), 3, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Zero(t, dst.Len())
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return len(p) - 1, nil
}

func TestCopyExact_ShortWrite(t *testing.T) {
	t.Parallel()

	_, err := CopyExact(context.Background(), shortWriter{}, strings.NewReader("abcdef"), 6, nil)
	require.ErrorIs(t, err, io.ErrShortWrite)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestCopyExact_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := CopyExact(context.Background(), io.Discard, failingReader{err: boom}, 4, nil)
	require.ErrorIs(t, err, boom)
}

func TestCounter_Add(t *testing.T) {
	t.Parallel()

	var c Counter
	require.NoError(t, c.Add(2))
	require.NoError(t, c.Add(3))
	assert.Equal(t, Counter(5), c)

	require.Error(t, c.Add(-1))

	c = Counter(math.MaxUint64)
	require.ErrorIs(t, c.Add(1), ErrOverflow)
	assert.Equal(t, Counter(math.MaxUint64), c)
}

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	cw := &CountingWriter{W: io.Discard}
	_, err := io.Copy(cw, strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, Counter(11), cw.N)

	cw.N = Counter(math.MaxUint64 - 1)
	_, err = cw.Write([]byte("ab"))
	require.ErrorIs(t, err, ErrOverflow)
}
