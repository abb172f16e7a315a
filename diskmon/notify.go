package diskmon

import (
	"fmt"
	"io"
	"log/slog"
)

// WriterNotifier prints one warning line per Status. Point it at stdout
// for the classic cron-mail behavior.
type WriterNotifier struct {
	Out io.Writer
}

// Notify writes a human-readable warning line.
func (n *WriterNotifier) Notify(status Status) error {
	_, err := fmt.Fprintf(n.Out, "WARNING: %s (%s) is %d%% full\n",
		status.MountPoint, status.Device, status.UsedPercent)
	if err != nil {
		return fmt.Errorf("writing notification: %w", err)
	}

	return nil
}

// LogNotifier emits warnings through a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs one warning record with the mount details attached.
func (n *LogNotifier) Notify(status Status) error {
	n.Logger.Warn("filesystem over threshold",
		"mount", status.MountPoint,
		"device", status.Device,
		"fstype", status.FSType,
		"used_percent", status.UsedPercent)

	return nil
}

// Both sinks must satisfy the Notifier interface.
var (
	_ Notifier = (*WriterNotifier)(nil)
	_ Notifier = (*LogNotifier)(nil)
)
