// Package diskmon takes point-in-time snapshots of mounted, device-backed
// filesystems and flags any that have run past a used-space threshold.
// There are no retries and no persistence; invoke Check from an external
// scheduler. Virtual and pseudo filesystems (proc, tmpfs, cgroup, ...)
// are filtered out by requiring a /dev-backed source device.
package diskmon

//go:generate mockgen -destination=../mocks/notifier.go -package=mocks golift.io/janitorr/diskmon Notifier

import (
	"errors"
	"fmt"
	"strings"
)

// devicePrefix separates real block devices from pseudo filesystems.
const devicePrefix = "/dev/"

// ErrBadThreshold is returned for thresholds outside 0-100.
var ErrBadThreshold = errors.New("threshold percent must be between 0 and 100")

// State classifies one filesystem against the threshold.
type State uint8

// A filesystem is Warning when its used percentage meets or exceeds the
// threshold. The boundary is inclusive.
const (
	Ok State = iota
	Warning
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == Warning {
		return "warning"
	}

	return "ok"
}

// Mount identifies one mounted filesystem.
type Mount struct {
	Device     string
	MountPoint string
	FSType     string
}

// Usage is a statfs snapshot for one mount point, in bytes.
type Usage struct {
	TotalBytes uint64
	FreeBytes  uint64
	AvailBytes uint64 // available to unprivileged users; smaller than FreeBytes.
}

// UsedPercent computes used space the way df does: used blocks over used
// plus available, rounded up.
func (u Usage) UsedPercent() int {
	used := u.TotalBytes - u.FreeBytes

	total := used + u.AvailBytes
	if total == 0 {
		return 0
	}

	return int((used*100 + total - 1) / total)
}

// Status reports the check result for one filesystem.
type Status struct {
	Mount
	Usage       Usage
	UsedPercent int
	State       State
	Err         error // set when statfs or notification failed.
}

// Notifier receives one call per Warning filesystem. Sinks shipped with
// this package write to an io.Writer or a structured logger; a mail or
// pager transport plugs in behind the same interface.
type Notifier interface {
	Notify(status Status) error
}

// Checker evaluates every device-backed filesystem against a threshold.
type Checker struct {
	Threshold int      // Warning when used percent >= this.
	Notifier  Notifier // optional; called once per Warning.
	// Mockable procedures. Leave nil to use the real system.
	Mounts func() ([]Mount, error)
	Statfs func(path string) (Usage, error)
}

// NewChecker validates the threshold and returns a Checker.
func NewChecker(threshold int, notifier Notifier) (*Checker, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: %d", ErrBadThreshold, threshold)
	}

	return &Checker{Threshold: threshold, Notifier: notifier}, nil
}

// Check snapshots every device-backed filesystem. One mount's statfs
// failure is recorded on its Status and does not abort the rest.
func (c *Checker) Check() ([]Status, error) {
	listMounts := c.Mounts
	if listMounts == nil {
		listMounts = mounts
	}

	stat := c.Statfs
	if stat == nil {
		stat = statfs
	}

	list, err := listMounts()
	if err != nil {
		return nil, fmt.Errorf("listing mounted filesystems: %w", err)
	}

	var statuses []Status

	for _, mount := range list {
		if !strings.HasPrefix(mount.Device, devicePrefix) {
			continue // virtual/pseudo filesystem.
		}

		status := Status{Mount: mount}

		usage, err := stat(mount.MountPoint)
		if err != nil {
			status.Err = fmt.Errorf("statfs %s: %w", mount.MountPoint, err)
			statuses = append(statuses, status)

			continue
		}

		status.Usage = usage
		status.UsedPercent = usage.UsedPercent()

		if status.UsedPercent >= c.Threshold {
			status.State = Warning

			if c.Notifier != nil {
				if err := c.Notifier.Notify(status); err != nil {
					status.Err = fmt.Errorf("notifying for %s: %w", mount.MountPoint, err)
				}
			}
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
