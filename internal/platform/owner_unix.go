//go:build unix

package platform

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// FileOwner extracts UID and GID from file info on Unix systems.
func FileOwner(info fs.FileInfo) (uid, gid int) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), int(stat.Gid)
	}
	return 0, 0
}

// Device returns the major and minor numbers of the device holding the file.
func Device(info fs.FileInfo) (major, minor uint32) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		dev := uint64(stat.Dev) //nolint:gosec,unconvert // Dev width varies by platform
		return unix.Major(dev), unix.Minor(dev)
	}
	return 0, 0
}
