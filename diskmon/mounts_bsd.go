//go:build darwin || freebsd

package diskmon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mounts enumerates mounted filesystems with getfsstat(2).
func mounts() ([]Mount, error) {
	count, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("sizing getfsstat: %w", err)
	}

	list := make([]unix.Statfs_t, count)
	if _, err := unix.Getfsstat(list, unix.MNT_NOWAIT); err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}

	mounts := make([]Mount, 0, len(list))
	for i := range list {
		mounts = append(mounts, Mount{
			Device:     unix.ByteSliceToString(list[i].Mntfromname[:]),
			MountPoint: unix.ByteSliceToString(list[i].Mntonname[:]),
			FSType:     unix.ByteSliceToString(list[i].Fstypename[:]),
		})
	}

	return mounts, nil
}
