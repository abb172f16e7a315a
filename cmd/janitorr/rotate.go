package main

import (
	"github.com/spf13/cobra"

	"golift.io/janitorr"
	"golift.io/janitorr/compressor"
)

func newRotateCmd(app *cli) *cobra.Command {
	var (
		logDir     string
		archiveDir string
		maxSizeMB  int64
		rotations  int
		compress   bool
	)

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Sweep the log directory and rotate oversized logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rotate := &app.config.Rotate

			if cmd.Flags().Changed("log-dir") {
				rotate.LogDir = logDir
			}

			if cmd.Flags().Changed("archive-dir") {
				rotate.ArchiveDir = archiveDir
			}

			if cmd.Flags().Changed("max-size-mb") {
				rotate.MaxSizeMB = maxSizeMB
			}

			if cmd.Flags().Changed("max-rotations") {
				rotate.MaxRotations = rotations
			}

			if cmd.Flags().Changed("compress") {
				rotate.Compress = compress
			}

			return app.rotate()
		},
	}

	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory holding live *.log files")
	cmd.Flags().StringVar(&archiveDir, "archive-dir", "", "directory receiving rotated generations")
	cmd.Flags().Int64Var(&maxSizeMB, "max-size-mb", 0, "rotate logs larger than this many megabytes")
	cmd.Flags().IntVar(&rotations, "max-rotations", 0, "generations to retain; 0 discards rotated content")
	cmd.Flags().BoolVar(&compress, "compress", false, "gzip each archive generation after rotation")

	return cmd
}

// rotate runs one sweep. Per-file failures are logged and do not change
// the exit code: the oversized file persists, so the next scheduled
// sweep naturally retries. Only setup problems are fatal.
func (app *cli) rotate() error {
	if err := app.config.ValidateRotate(); err != nil {
		return err
	}

	engineConfig := &janitorr.Config{
		Policy:     app.config.Rotate.Policy(),
		ArchiveDir: app.config.Rotate.ArchiveDir,
	}

	if app.config.Rotate.Compress {
		engineConfig.PostRotate = compressor.PostRotate
	}

	engine, err := janitorr.New(engineConfig)
	if err != nil {
		return err
	}

	for _, result := range engine.Sweep(app.config.Rotate.LogDir) {
		switch {
		case result.Err != nil:
			app.log.Error("rotation failed", "path", result.Path, "error", result.Err)
		case result.Outcome.Rotated:
			app.log.Info("rotated", "path", result.Path,
				"bytes", result.Outcome.PreviousSize, "archive", result.Outcome.ArchivePath)
		default:
			app.log.Debug("skipped", "path", result.Path, "reason", result.Outcome.SkipReason.String())
		}
	}

	return nil
}
