package minitar

import (
	"context"
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/namelist"
)

// List returns the distinct member names of the archive in first-occurrence
// order.
//
// List reads only headers; content blocks are skipped by seeking. A name that
// appears more than once in the archive is reported once.
func List(archivePath string, opts ...Option) ([]string, error) {
	cfg := newConfig(opts)
	names, err := listMembers(cfg, archivePath)
	if err != nil {
		return nil, err
	}
	return names.Names(), nil
}

// listMembers scans archivePath and collects its member names.
func listMembers(cfg *config, archivePath string) (*namelist.List, error) {
	f, size, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := newScanner(f, size, cfg.verifyChecksums)
	names := &namelist.List{}
	headers := 0
	for {
		h, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", archivePath, err)
		}
		headers++
		names.Add(h.Name)
		cfg.reportProgress(StageScanning, h.Name, 0, headers, 0)

		if err := s.skip(&h); err != nil {
			return nil, fmt.Errorf("list %s: %w", archivePath, err)
		}
	}

	cfg.log().Debug("archive listed", "archive", archivePath, "headers", headers, "members", names.Len())
	return names, nil
}

// Member describes one header in an archive as found by Inspect.
type Member struct {
	Header

	// Offset is the archive offset of the member's header block.
	Offset int64

	// Digest is the sha256 digest of the member's content.
	Digest digest.Digest

	// ChecksumValid reports whether the stored header checksum matches the
	// header bytes.
	ChecksumValid bool
}

// Inspect returns every header of the archive in stream order, including
// repeated names, along with each member's offset and content digest.
//
// Unlike List, Inspect reads all content. Header checksum mismatches are
// reported in Member.ChecksumValid rather than returned as errors.
func Inspect(ctx context.Context, archivePath string, opts ...Option) ([]Member, error) {
	cfg := newConfig(opts)

	f, size, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := newScanner(f, size, false)
	buf := blockio.NewBuffer()
	var members []Member
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		off := s.offset()
		h, err := s.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", archivePath, err)
		}

		m := Member{Header: h, Offset: off, ChecksumValid: s.checksumErr() == nil}
		digester := digest.Canonical.Digester()
		if err := s.copyContent(ctx, digester.Hash(), &h, buf); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", archivePath, err)
		}
		m.Digest = digester.Digest()

		members = append(members, m)
		cfg.reportProgress(StageScanning, h.Name, 0, len(members), 0)
	}

	cfg.log().Debug("archive inspected", "archive", archivePath, "headers", len(members))
	return members, nil
}
