//go:build linux || darwin || freebsd

package diskmon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// statfs returns a point-in-time usage snapshot for one mount point.
func statfs(path string) (Usage, error) {
	var stat unix.Statfs_t

	if err := unix.Statfs(path, &stat); err != nil {
		return Usage{}, fmt.Errorf("statfs: %w", err)
	}

	// Field widths differ per OS, so everything converts through uint64.
	bsize := uint64(stat.Bsize)

	return Usage{
		TotalBytes: uint64(stat.Blocks) * bsize,
		FreeBytes:  uint64(stat.Bfree) * bsize,
		AvailBytes: uint64(stat.Bavail) * bsize,
	}, nil
}
