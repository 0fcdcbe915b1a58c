// Package testutil provides fixtures and archive assertions for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/minitar/internal/header"
	"github.com/meigma/minitar/internal/sizing"
)

// WriteFiles creates each file under dir with the given content, creating
// parent directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		WriteFile(t, dir, path, []byte(content))
	}
}

// WriteFile creates a single file under dir.
func WriteFile(t *testing.T, dir, path string, content []byte) {
	t.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
}

// ReadFile returns the content of dir/path as a string.
func ReadFile(t *testing.T, dir, path string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	require.NoError(t, err)
	return string(data)
}

// RawHeader is a header found by walking archive bytes directly.
type RawHeader struct {
	Offset int64
	Block  *header.Block
	Header header.Header
}

// WalkHeaders decodes every header of a well-formed archive held in memory,
// stopping at the end marker.
func WalkHeaders(t *testing.T, archive []byte) []RawHeader {
	t.Helper()

	var out []RawHeader
	var off int64
	for {
		require.LessOrEqual(t, off+sizing.BlockSize, int64(len(archive)), "archive ends inside a header at %d", off)
		b := (*header.Block)(archive[off : off+sizing.BlockSize])
		if header.IsEnd(b) {
			return out
		}
		h, err := header.Unmarshal(b)
		require.NoError(t, err)
		out = append(out, RawHeader{Offset: off, Block: b, Header: h})
		off += sizing.BlockSize + h.Blocks()*sizing.BlockSize
	}
}

// AssertWellFormed checks the block and footer invariants of an archive:
// its length is a multiple of the block size, it ends with two zero blocks
// that directly follow the last member, and every header checksum verifies.
func AssertWellFormed(t *testing.T, archive []byte) {
	t.Helper()

	require.GreaterOrEqual(t, len(archive), 2*sizing.BlockSize)
	assert.Zero(t, len(archive)%sizing.BlockSize, "length %d is not block aligned", len(archive))
	assert.Equal(t, make([]byte, 2*sizing.BlockSize), archive[len(archive)-2*sizing.BlockSize:], "footer is not zero")

	var end int64
	for _, rh := range WalkHeaders(t, archive) {
		assert.NoError(t, header.Verify(rh.Block), "checksum of %s", rh.Header.Name)
		end = rh.Offset + sizing.BlockSize + rh.Header.Blocks()*sizing.BlockSize
	}
	assert.Equal(t, int64(len(archive)-2*sizing.BlockSize), end, "footer does not follow the last member")
}
