//go:build linux

package models

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// lstatSnapshot captures the raw attributes of path without dereferencing
// symlinks. Returns nil when the stat fails (object missing).
func lstatSnapshot(path string) *statSnapshot {
	var stat unix.Stat_t

	if err := unix.Lstat(path, &stat); err != nil {
		return nil
	}

	return &statSnapshot{
		size:    stat.Size,
		modTime: time.Unix(stat.Mtim.Unix()),
		uid:     stat.Uid,
		gid:     stat.Gid,
		mode:    uint32(stat.Mode),
	}
}

var (
	principalOnce sync.Once
	principal     Principal
)

// CurrentPrincipal returns the uid and group set of the invoking process,
// captured once per process.
func CurrentPrincipal() Principal {
	principalOnce.Do(func() {
		principal.UID = unix.Getuid()
		groups, err := unix.Getgroups()
		if err == nil {
			principal.Groups = groups
		}
	})
	return principal
}
