package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"golift.io/janitorr/diskmon"
)

// ErrBadNotifyTarget is returned for an unrecognized notify target.
var ErrBadNotifyTarget = errors.New("notify target must be stdout or log")

func newDiskCmd(app *cli) *cobra.Command {
	var (
		threshold int
		notify    string
	)

	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Report device-backed filesystems over the used-space threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			disk := &app.config.Disk

			if cmd.Flags().Changed("threshold") {
				disk.ThresholdPercent = threshold
			}

			if cmd.Flags().Changed("notify") {
				disk.NotifyTarget = notify
			}

			return app.disk()
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", 0, "warn when used percent meets or exceeds this")
	cmd.Flags().StringVar(&notify, "notify", "", "where warnings go: stdout or log")

	return cmd
}

func (app *cli) disk() error {
	if err := app.config.ValidateDisk(); err != nil {
		return err
	}

	var notifier diskmon.Notifier

	switch app.config.Disk.NotifyTarget {
	case "stdout":
		notifier = &diskmon.WriterNotifier{Out: os.Stdout}
	case "log":
		notifier = &diskmon.LogNotifier{Logger: app.log}
	default:
		return fmt.Errorf("%w: %q", ErrBadNotifyTarget, app.config.Disk.NotifyTarget)
	}

	checker, err := diskmon.NewChecker(app.config.Disk.ThresholdPercent, notifier)
	if err != nil {
		return err
	}

	statuses, err := checker.Check()
	if err != nil {
		return err
	}

	for _, status := range statuses {
		if status.Err != nil {
			app.log.Error("check failed", "mount", status.MountPoint, "error", status.Err)

			continue
		}

		app.log.Debug("checked", "mount", status.MountPoint,
			"used_percent", status.UsedPercent, "state", status.State.String())
	}

	return nil
}
