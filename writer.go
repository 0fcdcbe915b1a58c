package minitar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/platform"
)

// Create writes a new archive at archivePath holding members in order.
//
// Any existing file at archivePath is truncated. Each member is written as a
// header block followed by its content, zero-padded to a block boundary, and
// the archive ends with a two-block footer. An empty member list produces a
// footer-only archive.
//
// Create does not roll back: if a member cannot be read, the archive is left
// with whatever was written before the failure.
func Create(ctx context.Context, archivePath string, members []string, opts ...Option) error {
	cfg := newConfig(opts)
	cfg.log().Info("creating archive", "archive", archivePath, "members", len(members))

	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", archivePath, err)
	}

	w := &writer{cfg: cfg, buf: blockio.NewBuffer()}
	if err := w.writeMembers(ctx, f, members); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Append adds members to the end of an existing archive.
//
// The footer is removed by truncating the last FooterSize bytes, members are
// written exactly as Create writes them, and a fresh footer is added. Names
// already present in the archive are appended again; nothing is replaced in
// place.
func Append(ctx context.Context, archivePath string, members []string, opts ...Option) error {
	return appendMembers(ctx, newConfig(opts), archivePath, members)
}

func appendMembers(ctx context.Context, cfg *config, archivePath string, members []string) error {
	cfg.log().Info("appending to archive", "archive", archivePath, "members", len(members))

	f, err := os.OpenFile(archivePath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrArchiveNotFound, archivePath, err)
	}

	end, err := removeFooter(f, archivePath)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := f.Seek(end, io.SeekStart); err != nil {
		f.Close()
		return fmt.Errorf("seek %s: %w", archivePath, err)
	}
	cfg.log().Debug("footer removed", "archive", archivePath, "offset", end)

	w := &writer{cfg: cfg, buf: blockio.NewBuffer()}
	if err := w.writeMembers(ctx, f, members); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// removeFooter truncates the trailing footer from f and returns the new length.
// The footer must be present as FooterSize zero bytes at the end of the file.
func removeFooter(f *os.File, archivePath string) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTruncationFailed, archivePath, err)
	}
	size := info.Size()
	if size < FooterSize {
		return 0, fmt.Errorf("%w: %s: %d bytes is shorter than the footer", ErrTruncationFailed, archivePath, size)
	}

	end := size - FooterSize
	tail := make([]byte, FooterSize)
	if _, err := f.ReadAt(tail, end); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTruncationFailed, archivePath, err)
	}
	if !bytes.Equal(tail, make([]byte, FooterSize)) {
		return 0, fmt.Errorf("%w: %s: archive does not end with a footer", ErrTruncationFailed, archivePath)
	}

	if err := f.Truncate(end); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTruncationFailed, archivePath, err)
	}
	return end, nil
}

// writer holds per-operation state for writing members.
type writer struct {
	cfg *config
	buf []byte
}

// writeMembers writes every member followed by the footer.
func (w *writer) writeMembers(ctx context.Context, dst io.Writer, members []string) error {
	cw := &blockio.CountingWriter{W: dst}
	var contentBytes int64

	for i, path := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := w.writeMember(ctx, cw, path)
		if err != nil {
			return err
		}
		contentBytes += n
		w.cfg.log().Debug("member written", "path", path, "size", n)
		w.cfg.reportProgress(StageWriting, path, contentBytes, i+1, len(members))
	}

	if err := blockio.WriteZeros(cw, FooterSize); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	w.cfg.log().Debug("archive written", "member_count", len(members), "bytes_written", cw.N)
	return nil
}

// writeMember writes one header and its padded content.
// Returns the number of content bytes written.
func (w *writer) writeMember(ctx context.Context, dst io.Writer, path string) (int64, error) {
	src, _, err := platform.OpenRegular(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSourceFileMissing, path, err)
	}
	defer src.Close()

	b, md, err := encodeHeader(w.cfg.metadataProvider(), path)
	if err != nil {
		return 0, err
	}
	if _, err := dst.Write(b[:]); err != nil {
		return 0, fmt.Errorf("write header %s: %w", path, err)
	}

	n, err := blockio.CopyPadded(ctx, dst, src, md.Size, w.buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return n, fmt.Errorf("%w: %s: read %d of %d bytes", ErrSourceChanged, path, n, md.Size)
		}
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
