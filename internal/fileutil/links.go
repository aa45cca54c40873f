package fileutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Identity describes the inode behind a path.
type Identity struct {
	Device    uint64
	Inode     uint64
	LinkCount uint64
	Size      int64
}

// Stat returns the inode identity of path without following a final symlink.
func Stat(path string) (Identity, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Identity{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Identity{
		Device:    uint64(st.Dev),
		Inode:     uint64(st.Ino),
		LinkCount: uint64(st.Nlink),
		Size:      st.Size,
	}, nil
}

// LinkCount returns the number of hard links pointing at path's inode.
func LinkCount(path string) (uint64, error) {
	id, err := Stat(path)
	if err != nil {
		return 0, err
	}
	return id.LinkCount, nil
}

// SameFile reports whether a and b are the same inode.
func (i Identity) SameFile(other Identity) bool {
	return i.Device == other.Device && i.Inode == other.Inode
}

// SameDevice reports whether two existing paths live on the same filesystem,
// which hard links require.
func SameDevice(a, b string) (bool, error) {
	ia, err := Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := Stat(b)
	if err != nil {
		return false, err
	}
	return ia.Device == ib.Device, nil
}
