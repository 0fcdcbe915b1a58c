package minitar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFirstOccurrenceOrder(t *testing.T) {
	inSourceDir(t, map[string]string{"c.txt": "c", "a.txt": "a", "b.txt": strings.Repeat("b", 2000)})
	ctx := context.Background()

	require.NoError(t, Create(ctx, "out.tar", []string{"c.txt", "a.txt"}, testOpts()...))
	require.NoError(t, Append(ctx, "out.tar", []string{"b.txt", "c.txt"}, testOpts()...))

	names, err := List("out.tar")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, names)

	again, err := List("out.tar")
	require.NoError(t, err)
	assert.Equal(t, names, again)
}

func TestListMissingArchive(t *testing.T) {
	t.Parallel()

	_, err := List(filepath.Join(t.TempDir(), "missing.tar"))
	assert.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestListFooterOnly(t *testing.T) {
	inSourceDir(t, nil)
	require.NoError(t, Create(context.Background(), "out.tar", nil, testOpts()...))

	names, err := List("out.tar")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.tar")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	names, err := List(path)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListTruncated(t *testing.T) {
	inSourceDir(t, map[string]string{"x.txt": strings.Repeat("x", 600)})
	require.NoError(t, Create(context.Background(), "out.tar", []string{"x.txt"}, testOpts()...))

	tests := []struct {
		name string
		size int64
	}{
		{"partial header", 100},
		{"missing content", 2 * BlockSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := readArchive(t, "out.tar")
			path := filepath.Join(t.TempDir(), "cut.tar")
			require.NoError(t, os.WriteFile(path, data[:tt.size], 0o644))

			_, err := List(path)
			assert.ErrorIs(t, err, ErrTruncatedArchive)
		})
	}
}

func TestListVerifyChecksums(t *testing.T) {
	inSourceDir(t, map[string]string{"a.txt": "a"})
	require.NoError(t, Create(context.Background(), "out.tar", []string{"a.txt"}, testOpts()...))

	data := readArchive(t, "out.tar")
	data[0] = 'b'
	require.NoError(t, os.WriteFile("out.tar", data, 0o644))

	names, err := List("out.tar")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, names)

	_, err = List("out.tar", WithVerifyChecksums(true))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestListProgress(t *testing.T) {
	inSourceDir(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	require.NoError(t, Create(context.Background(), "out.tar", []string{"a.txt", "b.txt", "a.txt"}, testOpts()...))

	var paths []string
	_, err := List("out.tar", WithProgress(func(e ProgressEvent) {
		assert.Equal(t, StageScanning, e.Stage)
		paths = append(paths, e.Path)
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "a.txt"}, paths)
}

func TestInspect(t *testing.T) {
	files := map[string]string{
		"a.txt": "one",
		"b.txt": strings.Repeat("b", 1500),
	}
	inSourceDir(t, files)
	ctx := context.Background()

	require.NoError(t, Create(ctx, "out.tar", []string{"a.txt", "b.txt"}, testOpts()...))
	testFileWrite(t, "a.txt", "two!")
	require.NoError(t, Append(ctx, "out.tar", []string{"a.txt"}, testOpts()...))

	members, err := Inspect(ctx, "out.tar")
	require.NoError(t, err)
	require.Len(t, members, 3)

	assert.Equal(t, "a.txt", members[0].Name)
	assert.Equal(t, int64(0), members[0].Offset)
	assert.Equal(t, digest.FromString("one"), members[0].Digest)

	assert.Equal(t, "b.txt", members[1].Name)
	assert.Equal(t, int64(1024), members[1].Offset)
	assert.Equal(t, digest.FromString(files["b.txt"]), members[1].Digest)
	assert.Equal(t, int64(1500), members[1].Size)

	assert.Equal(t, "a.txt", members[2].Name)
	assert.Equal(t, int64(1024+512+1536), members[2].Offset)
	assert.Equal(t, digest.FromString("two!"), members[2].Digest)

	for _, m := range members {
		assert.True(t, m.ChecksumValid, m.Name)
		assert.Equal(t, "tester", m.Uname)
	}
}

func TestInspectReportsBadChecksum(t *testing.T) {
	inSourceDir(t, map[string]string{"a.txt": "a"})
	require.NoError(t, Create(context.Background(), "out.tar", []string{"a.txt"}, testOpts()...))

	data := readArchive(t, "out.tar")
	data[1] = '!'
	require.NoError(t, os.WriteFile("out.tar", data, 0o644))

	members, err := Inspect(context.Background(), "out.tar")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.False(t, members[0].ChecksumValid)
}

func testFileWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
