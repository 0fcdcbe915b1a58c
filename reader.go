package minitar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/header"
)

// openArchive opens an existing archive for reading and returns its size.
func openArchive(archivePath string) (*os.File, int64, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrArchiveNotFound, archivePath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", archivePath, err)
	}
	return f, info.Size(), nil
}

// scanner walks the headers of an archive in stream order.
//
// After next returns a header, the caller must consume its content with
// either skip or copyContent before calling next again.
type scanner struct {
	src    io.ReadSeeker
	cr     *blockio.CountingReader
	size   int64
	verify bool
	block  header.Block
}

func newScanner(src io.ReadSeeker, size int64, verify bool) *scanner {
	return &scanner{
		src:    src,
		cr:     &blockio.CountingReader{R: src},
		size:   size,
		verify: verify,
	}
}

// offset returns the archive offset of the next unread byte.
func (s *scanner) offset() int64 {
	return s.cr.N
}

// next reads the next header.
// It returns io.EOF at the end marker, or at a clean end of file on a block
// boundary.
func (s *scanner) next() (Header, error) {
	off := s.cr.N
	if _, err := io.ReadFull(s.cr, s.block[:]); err != nil {
		if err == io.EOF {
			return Header{}, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return Header{}, fmt.Errorf("%w: partial header at offset %d", ErrTruncatedArchive, off)
		}
		return Header{}, err
	}
	if header.IsEnd(&s.block) {
		return Header{}, io.EOF
	}
	if s.verify {
		if err := header.Verify(&s.block); err != nil {
			return Header{}, fmt.Errorf("header at offset %d: %w", off, err)
		}
	}

	h, err := header.Unmarshal(&s.block)
	if err != nil {
		return Header{}, fmt.Errorf("header at offset %d: %w", off, err)
	}
	if h.Size < 0 {
		return Header{}, fmt.Errorf("%w: negative size at offset %d", ErrInvalidHeader, off)
	}
	return h, nil
}

// checksumErr verifies the checksum of the header last returned by next.
func (s *scanner) checksumErr() error {
	return header.Verify(&s.block)
}

// skip moves past the content blocks of h without reading them.
func (s *scanner) skip(h *Header) error {
	n := h.Blocks() * BlockSize
	pos, err := s.src.Seek(n, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("skip %s: %w", h.Name, err)
	}
	if pos > s.size {
		return fmt.Errorf("%w: content of %s ends past offset %d", ErrTruncatedArchive, h.Name, s.size)
	}
	s.cr.N = pos
	return nil
}

// copyContent writes the content of h to dst and leaves the scanner at the
// next header.
func (s *scanner) copyContent(ctx context.Context, dst io.Writer, h *Header, buf []byte) error {
	n, err := blockio.CopyUnpadded(ctx, dst, s.cr, h.Size, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: content of %s: read %d of %d bytes", ErrTruncatedArchive, h.Name, n, h.Size)
		}
		return err
	}
	return nil
}
