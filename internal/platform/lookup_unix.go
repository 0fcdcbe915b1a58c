//go:build darwin || dragonfly || freebsd || (!android && linux) || netbsd || openbsd || solaris

package platform

import (
	"fmt"

	"github.com/moby/sys/user"
)

// LookupNames resolves uid and gid to their user and group names using the
// system passwd and group databases.
func LookupNames(uid, gid int) (uname, gname string, err error) {
	u, err := user.LookupUid(uid)
	if err != nil {
		return "", "", fmt.Errorf("uid %d: %w", uid, err)
	}
	g, err := user.LookupGid(gid)
	if err != nil {
		return "", "", fmt.Errorf("gid %d: %w", gid, err)
	}
	return u.Name, g.Name, nil
}
