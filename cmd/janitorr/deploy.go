package main

import (
	"github.com/spf13/cobra"

	"golift.io/janitorr/deploy"
)

func newDeployCmd(app *cli) *cobra.Command {
	var (
		src      string
		appRoot  string
		keep     int
		service  string
		noReload bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Install a new release and make it current",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &app.config.Deploy

			if cmd.Flags().Changed("app-root") {
				cfg.AppRoot = appRoot
			}

			if cmd.Flags().Changed("keep") {
				cfg.KeepReleases = keep
			}

			if cmd.Flags().Changed("service") {
				cfg.Service = service
			}

			if err := app.config.ValidateDeploy(); err != nil {
				return err
			}

			deployer := app.deployer(noReload)

			release, err := deployer.Deploy(cmd.Context(), src)
			if err != nil {
				return err
			}

			app.log.Info("deployed", "release", release, "current", deployer.Current())

			return nil
		},
	}

	cmd.Flags().StringVar(&src, "src", "", "path to the checked-out source directory")
	cmd.Flags().StringVar(&appRoot, "app-root", "", "application root holding releases/ and current")
	cmd.Flags().IntVar(&keep, "keep", 0, "releases to retain; 0 keeps everything")
	cmd.Flags().StringVar(&service, "service", "", "systemd unit to reload after the switch")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "skip the service reload (dry-run friendly)")
	_ = cmd.MarkFlagRequired("src")

	return cmd
}

func newRollbackCmd(app *cli) *cobra.Command {
	var (
		appRoot  string
		noReload bool
	)

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Make the previous release current again",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("app-root") {
				app.config.Deploy.AppRoot = appRoot
			}

			if err := app.config.ValidateDeploy(); err != nil {
				return err
			}

			deployer := app.deployer(noReload)

			if err := deployer.Rollback(cmd.Context()); err != nil {
				return err
			}

			app.log.Info("rolled back", "current", deployer.Current())

			return nil
		},
	}

	cmd.Flags().StringVar(&appRoot, "app-root", "", "application root holding releases/ and current")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "skip the service reload")

	return cmd
}

func (app *cli) deployer(noReload bool) *deploy.Deployer {
	deployer := &deploy.Deployer{
		AppRoot:      app.config.Deploy.AppRoot,
		KeepReleases: app.config.Deploy.KeepReleases,
		Service:      app.config.Deploy.Service,
		Reloader:     deploy.SystemdReloader{},
	}

	if noReload {
		deployer.Reloader = deploy.NopReloader{}
	}

	return deployer
}
