// Package header encodes and decodes the fixed 512-byte member header.
//
// Every numeric field is stored as zero-padded ASCII octal followed by a NUL
// terminator. Every string field is NUL-terminated. Fields live at fixed byte
// offsets; nothing depends on in-memory struct layout.
package header

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/meigma/minitar/internal/sizing"
)

// Size is the length of an encoded header.
const Size = sizing.BlockSize

// Constant field values written into every header.
const (
	TypeRegular byte = '0'
	Magic            = "ustar\x00"
	Version          = "00"

	// MaxNameLen is the longest name that fits the NUL-terminated name field.
	MaxNameLen = nameLen - 1
)

// Field offsets and widths.
const (
	nameOff, nameLen         = 0, 100
	modeOff, modeLen         = 100, 8
	uidOff, uidLen           = 108, 8
	gidOff, gidLen           = 116, 8
	sizeOff, sizeLen         = 124, 12
	mtimeOff, mtimeLen       = 136, 12
	chksumOff, chksumLen     = 148, 8
	typeflagOff              = 156
	magicOff, magicLen       = 257, 6
	versionOff, versionLen   = 263, 2
	unameOff, unameLen       = 265, 32
	gnameOff, gnameLen       = 297, 32
	devmajorOff, devmajorLen = 329, 8
	devminorOff, devminorLen = 337, 8
)

// Mode bits stored in the header beyond the permission bits.
const (
	modeSetuid = 0o4000
	modeSetgid = 0o2000
	modeSticky = 0o1000
)

// Sentinel errors for header encoding and decoding.
var (
	// ErrNameTooLong is returned when a member name does not fit the name field.
	ErrNameTooLong = errors.New("minitar: name too long")

	// ErrFieldOverflow is returned when a value does not fit its header field.
	ErrFieldOverflow = errors.New("minitar: header field overflow")

	// ErrInvalidHeader is returned when a block cannot be decoded as a header.
	ErrInvalidHeader = errors.New("minitar: invalid header")
)

// Block is one 512-byte archive block.
type Block [Size]byte

// Header is the decoded form of a member header.
type Header struct {
	// Name is the member path, at most 99 bytes.
	Name string

	// Mode holds the permission bits plus setuid, setgid and sticky.
	Mode fs.FileMode

	// UID and GID are the numeric owner and group ids.
	UID int
	GID int

	// Size is the content length in bytes.
	Size int64

	// ModTime is the modification time, truncated to whole seconds. The
	// zero time is encoded as the epoch.
	ModTime time.Time

	// Checksum is the stored checksum. Marshal ignores it and fills the
	// computed value into the block.
	Checksum uint32

	// Typeflag, Magic and Version are set to their constants by Marshal.
	Typeflag byte
	Magic    string
	Version  string

	// Uname and Gname are the owner and group names, at most 31 bytes each.
	Uname string
	Gname string

	// DevMajor and DevMinor are the device numbers of the filesystem that
	// held the source file.
	DevMajor uint32
	DevMinor uint32
}

// Blocks returns the number of content blocks that follow the header.
func (h *Header) Blocks() int64 {
	return sizing.Blocks(h.Size)
}

// Marshal encodes h into a block and stores its checksum.
func Marshal(h *Header) (*Block, error) {
	var b Block

	if h.Name == "" || strings.IndexByte(h.Name, 0) >= 0 {
		return nil, fmt.Errorf("%w: bad name %q", ErrInvalidHeader, h.Name)
	}
	if len(h.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: %s", ErrNameTooLong, h.Name)
	}
	copy(b[nameOff:], h.Name)

	fields := []struct {
		name  string
		off   int
		width int
		value int64
	}{
		{"mode", modeOff, modeLen, int64(modeBits(h.Mode))},
		{"uid", uidOff, uidLen, int64(h.UID)},
		{"gid", gidOff, gidLen, int64(h.GID)},
		{"size", sizeOff, sizeLen, h.Size},
		{"mtime", mtimeOff, mtimeLen, unixSeconds(h.ModTime)},
		{"devmajor", devmajorOff, devmajorLen, int64(h.DevMajor)},
		{"devminor", devminorOff, devminorLen, int64(h.DevMinor)},
	}
	for _, f := range fields {
		if err := formatOctal(b[f.off:f.off+f.width], f.value); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if err := formatString(b[unameOff:unameOff+unameLen], h.Uname); err != nil {
		return nil, fmt.Errorf("uname: %w", err)
	}
	if err := formatString(b[gnameOff:gnameOff+gnameLen], h.Gname); err != nil {
		return nil, fmt.Errorf("gname: %w", err)
	}

	b[typeflagOff] = TypeRegular
	copy(b[magicOff:magicOff+magicLen], Magic)
	copy(b[versionOff:versionOff+versionLen], Version)

	formatChecksum(&b, Checksum(&b))
	return &b, nil
}

// unixSeconds returns t as seconds since the epoch. The zero time is stored
// as 0.
func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Unmarshal decodes every field of b.
// The checksum is decoded but not verified; use Verify for that.
func Unmarshal(b *Block) (Header, error) {
	h := Header{
		Name:     parseString(b[nameOff : nameOff+nameLen]),
		Typeflag: b[typeflagOff],
		Magic:    string(b[magicOff : magicOff+magicLen]),
		Version:  string(b[versionOff : versionOff+versionLen]),
		Uname:    parseString(b[unameOff : unameOff+unameLen]),
		Gname:    parseString(b[gnameOff : gnameOff+gnameLen]),
	}

	var p parser
	h.Mode = fileMode(p.octal("mode", b[modeOff:modeOff+modeLen]))
	h.UID = int(p.octal("uid", b[uidOff:uidOff+uidLen]))
	h.GID = int(p.octal("gid", b[gidOff:gidOff+gidLen]))
	h.Size = p.octal("size", b[sizeOff:sizeOff+sizeLen])
	h.ModTime = time.Unix(p.octal("mtime", b[mtimeOff:mtimeOff+mtimeLen]), 0)
	h.Checksum = uint32(p.octal("chksum", b[chksumOff:chksumOff+chksumLen])) //nolint:gosec // bounded by field width
	h.DevMajor = uint32(p.octal("devmajor", b[devmajorOff:devmajorOff+devmajorLen]))
	h.DevMinor = uint32(p.octal("devminor", b[devminorOff:devminorOff+devminorLen]))
	if p.err != nil {
		return Header{}, p.err
	}
	return h, nil
}

// IsEnd reports whether b marks the end of the archive, which is the case
// when its name field holds no bytes.
func IsEnd(b *Block) bool {
	return b[nameOff] == 0
}

// Checksum returns the unsigned byte sum of b with the checksum field
// treated as ASCII spaces.
func Checksum(b *Block) uint32 {
	var sum uint32
	for i, c := range b {
		if i >= chksumOff && i < chksumOff+chksumLen {
			c = ' '
		}
		sum += uint32(c)
	}
	return sum
}

// Verify checks that the stored checksum of b matches its contents.
func Verify(b *Block) error {
	var p parser
	stored := p.octal("chksum", b[chksumOff:chksumOff+chksumLen])
	if p.err != nil {
		return p.err
	}
	if want := Checksum(b); stored != int64(want) {
		return fmt.Errorf("%w: checksum %o, computed %o", ErrInvalidHeader, stored, want)
	}
	return nil
}

// formatChecksum stores sum as six octal digits, a NUL and a space.
func formatChecksum(b *Block, sum uint32) {
	field := b[chksumOff : chksumOff+chksumLen]
	s := strconv.FormatUint(uint64(sum), 8)
	copy(field, strings.Repeat("0", 6-len(s))+s)
	field[6] = 0
	field[7] = ' '
}

// formatOctal writes v as zero-padded octal filling all but the last byte
// of dst, which is left as the NUL terminator.
func formatOctal(dst []byte, v int64) error {
	digits := len(dst) - 1
	s := strconv.FormatInt(v, 8)
	if v < 0 || len(s) > digits {
		return fmt.Errorf("%w: %d needs more than %d octal digits", ErrFieldOverflow, v, digits)
	}
	copy(dst, strings.Repeat("0", digits-len(s))+s)
	dst[digits] = 0
	return nil
}

// formatString writes s NUL-terminated into dst.
func formatString(dst []byte, s string) error {
	if len(s) >= len(dst) || strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: %q does not fit %d bytes", ErrFieldOverflow, s, len(dst))
	}
	copy(dst, s)
	return nil
}

// parseString returns the bytes of b up to the first NUL.
func parseString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// parser accumulates the first error seen while decoding numeric fields.
type parser struct {
	err error
}

func (p *parser) octal(field string, b []byte) int64 {
	s := strings.Trim(string(b), " \x00")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 8, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s field %q is not octal", ErrInvalidHeader, field, s)
	}
	return v
}

func modeBits(m fs.FileMode) uint32 {
	bits := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		bits |= modeSetuid
	}
	if m&fs.ModeSetgid != 0 {
		bits |= modeSetgid
	}
	if m&fs.ModeSticky != 0 {
		bits |= modeSticky
	}
	return bits
}

func fileMode(bits int64) fs.FileMode {
	m := fs.FileMode(bits & 0o777) //nolint:gosec // masked
	if bits&modeSetuid != 0 {
		m |= fs.ModeSetuid
	}
	if bits&modeSetgid != 0 {
		m |= fs.ModeSetgid
	}
	if bits&modeSticky != 0 {
		m |= fs.ModeSticky
	}
	return m
}
