// Package platform isolates the OS-specific parts of reading source files.
package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotRegular is returned when a source path is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// OpenRegular opens name for reading and returns its file info.
// Directories, devices and other special files are rejected with ErrNotRegular.
func OpenRegular(name string) (*os.File, fs.FileInfo, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotRegular, name)
	}
	return f, info, nil
}
