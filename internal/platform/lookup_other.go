//go:build !darwin && !dragonfly && !freebsd && (android || !linux) && !netbsd && !openbsd && !solaris

package platform

// LookupNames returns empty names where no passwd database is available.
func LookupNames(uid, gid int) (uname, gname string, err error) {
	return "", "", nil
}
