package minitar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meigma/minitar/internal/blockio"
)

// Extract writes every member of the archive to disk.
//
// Members are written in stream order into the directory set with
// ExtractWithDir, the current working directory by default. Each member
// creates or truncates its destination file, so when a name appears more than
// once the last copy in the archive wins. Parent directories named in a
// member path are created as needed.
//
// Extract does not clean up: on failure, files written before the error
// remain on disk.
func Extract(ctx context.Context, archivePath string, opts ...Option) error {
	cfg := newConfig(opts)
	cfg.log().Info("extracting archive", "archive", archivePath, "dir", cfg.dir)

	f, size, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	sink := newFileSink(cfg)
	s := newScanner(f, size, cfg.verifyChecksums)
	buf := blockio.NewBuffer()
	var (
		count int
		total int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		h, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("extract %s: %w", archivePath, err)
		}

		if err := sink.write(ctx, s, &h, buf); err != nil {
			return fmt.Errorf("extract %s: %w", archivePath, err)
		}
		count++
		total += h.Size
		cfg.log().Debug("member extracted", "path", h.Name, "size", h.Size)
		cfg.reportProgress(StageExtracting, h.Name, total, count, 0)
	}

	cfg.log().Debug("archive extracted", "archive", archivePath, "members", count, "bytes", total)
	return nil
}

// fileSink writes extracted members to the filesystem.
type fileSink struct {
	destDir       string
	preserveMode  bool
	preserveTimes bool
}

func newFileSink(cfg *config) *fileSink {
	return &fileSink{
		destDir:       cfg.dir,
		preserveMode:  cfg.preserveMode,
		preserveTimes: cfg.preserveTimes,
	}
}

// destPath maps a member name to its path under destDir.
// Names that are absolute or climb out of destDir are rejected.
func (s *fileSink) destPath(name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	if s.destDir == "" {
		return local, nil
	}
	return filepath.Join(s.destDir, local), nil
}

// write creates or truncates the destination of h and fills it with the
// member's content read from the scanner.
func (s *fileSink) write(ctx context.Context, sc *scanner, h *Header, buf []byte) error {
	destPath, err := s.destPath(h.Name)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if err := sc.copyContent(ctx, out, h, buf); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destPath, err)
	}

	if s.preserveMode {
		if err := os.Chmod(destPath, h.Mode); err != nil {
			return fmt.Errorf("chmod %s: %w", destPath, err)
		}
	}
	if s.preserveTimes {
		if err := os.Chtimes(destPath, h.ModTime, h.ModTime); err != nil {
			return fmt.Errorf("chtimes %s: %w", destPath, err)
		}
	}
	return nil
}
