package header

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader() Header {
	return Header{
		Name:     "docs/readme.txt",
		Mode:     0o644,
		UID:      1000,
		GID:      100,
		Size:     600,
		ModTime:  time.Unix(1700000000, 0),
		Uname:    "alice",
		Gname:    "users",
		DevMajor: 8,
		DevMinor: 1,
	}
}

func TestMarshalLayout(t *testing.T) {
	t.Parallel()

	h := sampleHeader()
	b, err := Marshal(&h)
	require.NoError(t, err)

	assert.Equal(t, "docs/readme.txt", string(b[0:15]))
	assert.Equal(t, make([]byte, 85), b[15:100])
	assert.Equal(t, "0000644\x00", string(b[100:108]))
	assert.Equal(t, "0001750\x00", string(b[108:116]))
	assert.Equal(t, "0000144\x00", string(b[116:124]))
	assert.Equal(t, "00000001130\x00", string(b[124:136]))
	assert.Equal(t, "14524770400\x00", string(b[136:148]))
	assert.Equal(t, byte('0'), b[156])
	assert.Equal(t, "ustar\x00", string(b[257:263]))
	assert.Equal(t, "00", string(b[263:265]))
	assert.Equal(t, "alice\x00", string(b[265:271]))
	assert.Equal(t, "users\x00", string(b[297:303]))
	assert.Equal(t, "0000010\x00", string(b[329:337]))
	assert.Equal(t, "0000001\x00", string(b[337:345]))
	assert.Equal(t, make([]byte, Size-345), b[345:])

	chk := string(b[148:156])
	assert.Equal(t, byte(0), chk[6])
	assert.Equal(t, byte(' '), chk[7])
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	var b Block
	assert.Equal(t, uint32(8*' '), Checksum(&b))

	h := sampleHeader()
	enc, err := Marshal(&h)
	require.NoError(t, err)
	require.NoError(t, Verify(enc))

	var sum uint32
	for i, c := range enc {
		if i >= 148 && i < 156 {
			c = ' '
		}
		sum += uint32(c)
	}
	dec, err := Unmarshal(enc)
	require.NoError(t, err)
	assert.Equal(t, sum, dec.Checksum)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	t.Parallel()

	h := sampleHeader()
	b, err := Marshal(&h)
	require.NoError(t, err)

	b[0] = 'D'
	assert.ErrorIs(t, Verify(b), ErrInvalidHeader)

	b[0] = 'd'
	require.NoError(t, Verify(b))
	copy(b[148:156], "zzzzzz\x00 ")
	assert.ErrorIs(t, Verify(b), ErrInvalidHeader)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Header)
	}{
		{"plain", func(*Header) {}},
		{"empty content", func(h *Header) { h.Size = 0 }},
		{"setuid and sticky", func(h *Header) { h.Mode = 0o755 | fs.ModeSetuid | fs.ModeSticky }},
		{"setgid", func(h *Header) { h.Mode = 0o750 | fs.ModeSetgid }},
		{"max name", func(h *Header) { h.Name = strings.Repeat("n", 99) }},
		{"max size", func(h *Header) { h.Size = 0o77777777777 }},
		{"no owner names", func(h *Header) { h.Uname, h.Gname = "", "" }},
		{"max uname", func(h *Header) { h.Uname = strings.Repeat("u", 31) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := sampleHeader()
			tt.mutate(&h)
			b, err := Marshal(&h)
			require.NoError(t, err)

			got, err := Unmarshal(b)
			require.NoError(t, err)

			assert.Equal(t, h.Name, got.Name)
			assert.Equal(t, h.Mode, got.Mode)
			assert.Equal(t, h.UID, got.UID)
			assert.Equal(t, h.GID, got.GID)
			assert.Equal(t, h.Size, got.Size)
			assert.True(t, h.ModTime.Equal(got.ModTime))
			assert.Equal(t, h.Uname, got.Uname)
			assert.Equal(t, h.Gname, got.Gname)
			assert.Equal(t, h.DevMajor, got.DevMajor)
			assert.Equal(t, h.DevMinor, got.DevMinor)
			assert.Equal(t, TypeRegular, got.Typeflag)
			assert.Equal(t, Magic, got.Magic)
			assert.Equal(t, Version, got.Version)
			assert.Equal(t, Checksum(b), got.Checksum)
		})
	}
}

func TestMarshalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Header)
		wantErr error
	}{
		{"empty name", func(h *Header) { h.Name = "" }, ErrInvalidHeader},
		{"nul in name", func(h *Header) { h.Name = "a\x00b" }, ErrInvalidHeader},
		{"name too long", func(h *Header) { h.Name = strings.Repeat("n", 100) }, ErrNameTooLong},
		{"size overflow", func(h *Header) { h.Size = 0o100000000000 }, ErrFieldOverflow},
		{"negative size", func(h *Header) { h.Size = -1 }, ErrFieldOverflow},
		{"uid overflow", func(h *Header) { h.UID = 0o10000000 }, ErrFieldOverflow},
		{"uname too long", func(h *Header) { h.Uname = strings.Repeat("u", 32) }, ErrFieldOverflow},
		{"gname too long", func(h *Header) { h.Gname = strings.Repeat("g", 40) }, ErrFieldOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := sampleHeader()
			tt.mutate(&h)
			_, err := Marshal(&h)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMarshalZeroModTime(t *testing.T) {
	t.Parallel()

	b, err := Marshal(&Header{Name: "a.txt", Size: 1})
	require.NoError(t, err)
	assert.Equal(t, "00000000000\x00", string(b[mtimeOff:mtimeOff+mtimeLen]))

	h, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), h.ModTime.Unix())
}

func TestMarshalNameLength(t *testing.T) {
	t.Parallel()

	h := sampleHeader()
	h.Name = strings.Repeat("n", MaxNameLen)
	b, err := Marshal(&h)
	require.NoError(t, err)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, h.Name, got.Name)

	h.Name += "n"
	_, err = Marshal(&h)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestUnmarshalInvalidOctal(t *testing.T) {
	t.Parallel()

	h := sampleHeader()
	b, err := Marshal(&h)
	require.NoError(t, err)

	copy(b[124:136], "0000000009x\x00")
	_, err = Unmarshal(b)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestUnmarshalSpacePadded(t *testing.T) {
	t.Parallel()

	var b Block
	copy(b[:], "legacy.txt")
	copy(b[124:136], "      1130 \x00")

	h, err := Unmarshal(&b)
	require.NoError(t, err)
	assert.Equal(t, "legacy.txt", h.Name)
	assert.Equal(t, int64(600), h.Size)
	assert.Equal(t, int64(2), h.Blocks())
}

func TestIsEnd(t *testing.T) {
	t.Parallel()

	var b Block
	assert.True(t, IsEnd(&b))

	h := sampleHeader()
	enc, err := Marshal(&h)
	require.NoError(t, err)
	assert.False(t, IsEnd(enc))
}

func TestReadableByArchiveTar(t *testing.T) {
	t.Parallel()

	h := sampleHeader()
	h.Size = 3
	b, err := Marshal(&h)
	require.NoError(t, err)

	var stream bytes.Buffer
	stream.Write(b[:])
	content := make([]byte, Size)
	copy(content, "abc")
	stream.Write(content)
	stream.Write(make([]byte, 2*Size))

	tr := tar.NewReader(&stream)
	th, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "docs/readme.txt", th.Name)
	assert.Equal(t, int64(3), th.Size)
	assert.Equal(t, "alice", th.Uname)
	assert.Equal(t, byte(tar.TypeReg), th.Typeflag)

	data, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = tr.Next()
	assert.Equal(t, io.EOF, err)
}
