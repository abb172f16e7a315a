package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"golift.io/janitorr/netcheck"
)

func newDiagCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Network diagnostics: ping sweep, port scan, HTTP checks",
	}

	cmd.PersistentFlags().IntVar(&workers, "workers", netcheck.DefaultWorkers, "maximum concurrent probes")

	cmd.AddCommand(
		newPingSweepCmd(&workers),
		newPortScanCmd(&workers),
		newHTTPCheckCmd(&workers),
	)

	return cmd
}

func newPingSweepCmd(workers *int) *cobra.Command {
	var (
		cidr    string
		network string
		start   int
		end     int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping-sweep",
		Short: "Ping an address range and print the hosts that answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sweeper := &netcheck.Sweeper{Timeout: timeout, Workers: *workers}

			var (
				live []string
				err  error
			)

			if cidr != "" {
				live, err = sweeper.SweepCIDR(cmd.Context(), cidr)
			} else {
				live, err = sweeper.SweepRange(cmd.Context(), network, start, end)
			}

			if err != nil {
				return err
			}

			for _, host := range live {
				fmt.Fprintln(cmd.OutOrStdout(), host)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&cidr, "cidr", "", "CIDR block to sweep, e.g. 192.168.1.0/24")
	cmd.Flags().StringVar(&network, "network", "", "base network with trailing dot, e.g. 192.168.1.")
	cmd.Flags().IntVar(&start, "start", 1, "first host number with --network")
	cmd.Flags().IntVar(&end, "end", 254, "last host number with --network")
	cmd.Flags().DurationVar(&timeout, "timeout", netcheck.DefaultTimeout, "per-host ping timeout")
	cmd.MarkFlagsMutuallyExclusive("cidr", "network")
	cmd.MarkFlagsOneRequired("cidr", "network")

	return cmd
}

func newPortScanCmd(workers *int) *cobra.Command {
	var (
		host    string
		ports   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "port-scan",
		Short: "TCP connect scan a host and print the open ports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := netcheck.ParsePorts(ports)
			if err != nil {
				return err
			}

			scanner := &netcheck.Scanner{Timeout: timeout, Workers: *workers}

			open, err := scanner.Scan(cmd.Context(), host, list)
			if err != nil {
				return err
			}

			for _, port := range open {
				fmt.Fprintln(cmd.OutOrStdout(), port)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "hostname or address to scan")
	cmd.Flags().StringVar(&ports, "ports", "", `ports to probe, e.g. "22,80,443" or "1-1024,8080"`)
	cmd.Flags().DurationVar(&timeout, "timeout", netcheck.DefaultTimeout, "per-port connect timeout")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("ports")

	return cmd
}

func newHTTPCheckCmd(workers *int) *cobra.Command {
	var (
		urls    []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "http-check",
		Short: "Fetch URLs and report their reachability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := &netcheck.HTTPChecker{Timeout: timeout, Workers: *workers}

			for _, status := range checker.Check(cmd.Context(), urls) {
				switch {
				case status.Accessible:
					fmt.Fprintf(cmd.OutOrStdout(), "%s OK (status=%d)\n", status.URL, status.StatusCode)
				case status.StatusCode != 0:
					fmt.Fprintf(cmd.OutOrStdout(), "%s FAIL (status=%d)\n", status.URL, status.StatusCode)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s ERROR (%v)\n", status.URL, status.Err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&urls, "urls", nil, "comma-separated URLs to check")
	cmd.Flags().DurationVar(&timeout, "timeout", netcheck.DefaultHTTPTimeout, "per-request timeout")
	_ = cmd.MarkFlagRequired("urls")

	return cmd
}
