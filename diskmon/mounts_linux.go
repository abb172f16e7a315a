package diskmon

import (
	"fmt"
	"os"
)

// mountsPath is where the kernel exposes this process's mount table.
const mountsPath = "/proc/self/mounts"

// mounts enumerates mounted filesystems from procfs.
func mounts() ([]Mount, error) {
	file, err := os.Open(mountsPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", mountsPath, err)
	}
	defer file.Close()

	return parseMounts(file)
}
