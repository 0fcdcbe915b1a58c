package minitar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/meigma/minitar/internal/header"
	"github.com/meigma/minitar/internal/platform"
)

// Metadata describes a source file as it is recorded in a header.
type Metadata struct {
	// Mode holds the permission bits plus setuid, setgid and sticky.
	Mode fs.FileMode

	// UID and GID are the numeric owner and group ids.
	UID int
	GID int

	// Uname and Gname are the names UID and GID resolve to.
	Uname string
	Gname string

	// Size is the file length in bytes.
	Size int64

	// ModTime is the file's modification time.
	ModTime time.Time

	// DevMajor and DevMinor identify the device holding the file.
	DevMajor uint32
	DevMinor uint32
}

// MetadataProvider looks up the metadata recorded for a source path.
//
// Implementations should wrap ErrMetadataUnavailable when the path cannot be
// inspected and ErrIdentityLookupFailed when an id has no name. Other errors
// are treated as ErrMetadataUnavailable.
type MetadataProvider interface {
	Metadata(path string) (Metadata, error)
}

// OSMetadata reads metadata from the local filesystem and resolves owner and
// group names from the system user and group databases.
type OSMetadata struct{}

// Metadata implements MetadataProvider.
func (OSMetadata) Metadata(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, path, err)
	}

	uid, gid := platform.FileOwner(info)
	uname, gname, err := platform.LookupNames(uid, gid)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrIdentityLookupFailed, path, err)
	}
	major, minor := platform.Device(info)

	return Metadata{
		Mode:     info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky),
		UID:      uid,
		GID:      gid,
		Uname:    uname,
		Gname:    gname,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		DevMajor: major,
		DevMinor: minor,
	}, nil
}

// EncodeHeader builds the 512-byte header for the file at path.
//
// Metadata comes from the provider set with WithMetadataProvider, OSMetadata
// by default. The header name is path exactly as given.
func EncodeHeader(path string, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	b, _, err := encodeHeader(cfg.metadataProvider(), path)
	if err != nil {
		return nil, err
	}
	return b[:], nil
}

// DecodeHeader decodes a 512-byte header block.
// It does not verify the checksum; compare Header.Checksum against
// ComputeChecksum for that.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != BlockSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidHeader, len(b), BlockSize)
	}
	return header.Unmarshal((*header.Block)(b))
}

// ComputeChecksum returns the checksum of a 512-byte header block, computed
// with the checksum field treated as spaces.
func ComputeChecksum(b []byte) (uint32, error) {
	if len(b) != BlockSize {
		return 0, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidHeader, len(b), BlockSize)
	}
	return header.Checksum((*header.Block)(b)), nil
}

// encodeHeader looks up the metadata for path and marshals its header.
func encodeHeader(p MetadataProvider, path string) (*header.Block, Metadata, error) {
	md, err := p.Metadata(path)
	if err != nil {
		if !errors.Is(err, ErrMetadataUnavailable) && !errors.Is(err, ErrIdentityLookupFailed) {
			err = fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, path, err)
		}
		return nil, Metadata{}, err
	}

	h := Header{
		Name:     path,
		Mode:     md.Mode,
		UID:      md.UID,
		GID:      md.GID,
		Size:     md.Size,
		ModTime:  md.ModTime,
		Uname:    md.Uname,
		Gname:    md.Gname,
		DevMajor: md.DevMajor,
		DevMinor: md.DevMinor,
	}
	b, err := header.Marshal(&h)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("header %s: %w", path, err)
	}
	return b, md, nil
}
