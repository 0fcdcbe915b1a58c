package minitar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/minitar/internal/testutil"
)

// fakeMetadata stats real files but reports fixed owner names so headers do
// not depend on the host's user database.
type fakeMetadata struct {
	// unresolvable names paths whose owner lookup fails.
	unresolvable map[string]bool

	// sizeDelta is added to the real file size.
	sizeDelta int64

	// err, when set, is returned for every path.
	err error
}

func (f fakeMetadata) Metadata(path string) (Metadata, error) {
	if f.err != nil {
		return Metadata{}, f.err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, path, err)
	}
	if f.unresolvable[path] {
		return Metadata{}, fmt.Errorf("%w: %s: uid 4242: no matching entries", ErrIdentityLookupFailed, path)
	}
	return Metadata{
		Mode:     info.Mode().Perm(),
		UID:      1000,
		GID:      1000,
		Uname:    "tester",
		Gname:    "testers",
		Size:     info.Size() + f.sizeDelta,
		ModTime:  info.ModTime(),
		DevMajor: 8,
		DevMinor: 1,
	}, nil
}

var errFake = errors.New("fake provider failure")

// testOpts returns the options every test uses unless it needs OSMetadata.
func testOpts(extra ...Option) []Option {
	return append([]Option{WithMetadataProvider(fakeMetadata{})}, extra...)
}

// inSourceDir creates files in a fresh directory and makes it the working
// directory, so member names can be relative paths.
func inSourceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, files)
	t.Chdir(dir)
	return dir
}

func readArchive(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// writeRawArchive writes an archive holding the given raw blocks followed by
// a footer.
func writeRawArchive(t *testing.T, dir string, blocks ...[]byte) string {
	t.Helper()
	path := filepath.Join(dir, "raw.tar")
	var data []byte
	for _, b := range blocks {
		data = append(data, b...)
	}
	data = append(data, make([]byte, FooterSize)...)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
