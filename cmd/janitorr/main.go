// Package main is the janitorr command: log rotation sweeps, disk
// threshold checks, release deploys, and network diagnostics for a
// single host. Each subcommand is one point-in-time run; scheduling is
// the caller's job.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"golift.io/janitorr/config"
)

// Version is set at build time with -ldflags.
var Version = "development" //nolint:gochecknoglobals

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the pieces every subcommand needs.
type cli struct {
	configPath string
	config     config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{log: slog.New(slog.NewTextHandler(os.Stderr, nil))}

	root := &cobra.Command{
		Use:          "janitorr",
		Short:        "Host janitor: log rotation, disk monitoring, deploys, diagnostics",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(app.configPath)
			if err != nil {
				return err
			}

			app.config = cfg

			return nil
		},
	}

	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(
		newRotateCmd(app),
		newDiskCmd(app),
		newDeployCmd(app),
		newRollbackCmd(app),
		newDiagCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "janitorr", Version)
		},
	}
}
