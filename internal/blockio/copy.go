// Package blockio moves member content in and out of block-aligned archives.
package blockio

import (
	"context"
	"io"

	"github.com/meigma/minitar/internal/sizing"
)

// bufferBlocks is the number of blocks held by a buffer from NewBuffer.
const bufferBlocks = 64

// NewBuffer returns a copy buffer whose length is a multiple of the block size.
// Buffers are scoped to a single operation and never shared across calls.
func NewBuffer() []byte {
	return make([]byte, bufferBlocks*sizing.BlockSize)
}

// CopyPadded copies exactly n bytes from src to dst, then zero-fills the
// final chunk up to the next block boundary. It returns the number of
// content bytes copied.
//
// If src ends before n bytes are read, CopyPadded returns io.ErrUnexpectedEOF.
// buf must be a nonzero multiple of the block size.
func CopyPadded(ctx context.Context, dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	var written int64
	for written < n {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		chunk := min(int64(len(buf)), n-written)
		if _, err := io.ReadFull(src, buf[:chunk]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return written, err
		}
		padded := chunk + sizing.Padding(chunk)
		clear(buf[chunk:padded])
		if _, err := dst.Write(buf[:padded]); err != nil {
			return written, err
		}
		written += chunk
	}
	return written, nil
}

// CopyUnpadded reads the blocks holding n bytes of content from src and
// writes only the n content bytes to dst. The zero padding of the final
// block is consumed from src and dropped, leaving src at the next block
// boundary.
//
// If src ends early, CopyUnpadded returns io.ErrUnexpectedEOF.
// buf must be a nonzero multiple of the block size.
func CopyUnpadded(ctx context.Context, dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	var written int64
	for written < n {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		chunk := min(int64(len(buf)), n-written)
		padded := chunk + sizing.Padding(chunk)
		if _, err := io.ReadFull(src, buf[:padded]); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return written, err
		}
		if _, err := dst.Write(buf[:chunk]); err != nil {
			return written, err
		}
		written += chunk
	}
	return written, nil
}

// WriteZeros writes n zero bytes to dst.
func WriteZeros(dst io.Writer, n int64) error {
	var zero [sizing.BlockSize]byte
	for n > 0 {
		chunk := min(n, int64(len(zero)))
		if _, err := dst.Write(zero[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
