package blockio

import (
	"errors"
	"io"

	"github.com/meigma/minitar/internal/sizing"
)

// ErrOverflow indicates a counter exceeded its maximum value.
var ErrOverflow = errors.New("counter overflow")

// CountingReader wraps a reader and counts bytes read.
type CountingReader struct {
	R io.Reader
	N int64
}

// Read implements io.Reader.
func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	if n > 0 {
		sum, ok := sizing.AddInt64(cr.N, int64(n))
		if !ok {
			return n, ErrOverflow
		}
		cr.N = sum
	}
	return n, err
}

// CountingWriter wraps a writer and counts bytes written.
type CountingWriter struct {
	W io.Writer
	N int64
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	if n > 0 {
		sum, ok := sizing.AddInt64(cw.N, int64(n))
		if !ok {
			return n, ErrOverflow
		}
		cw.N = sum
	}
	return n, err
}
