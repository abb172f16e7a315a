//go:build !linux && !darwin && !freebsd

package diskmon

import (
	"errors"
	"fmt"
	"runtime"
)

// Mount enumeration and statfs are wired up for Linux, Darwin and
// FreeBSD. Everywhere else the package compiles but Check reports that
// the platform has no implementation.

func mounts() ([]Mount, error) {
	return nil, fmt.Errorf("%w: mount enumeration on %s", errors.ErrUnsupported, runtime.GOOS)
}

func statfs(string) (Usage, error) {
	return Usage{}, fmt.Errorf("%w: statfs on %s", errors.ErrUnsupported, runtime.GOOS)
}
