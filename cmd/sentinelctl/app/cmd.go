package app

import (
	"time"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	server  string
	timeout time.Duration
}

// NewSentinelctlCommand returns the root command of the sentinel hub client.
func NewSentinelctlCommand() *cobra.Command {
	g := &globalOptions{
		server:  "http://localhost:8080",
		timeout: 10 * time.Second,
	}

	cmd := &cobra.Command{
		Use:           "sentinelctl",
		Short:         "Talk to a Sentinel telemetry hub",
		Long:          "sentinelctl sends telemetry pings to a Sentinel hub and inspects the live state it keeps per drone.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.server, "server", "s", g.server, "Base URL of the hub HTTP API.")
	cmd.PersistentFlags().DurationVar(&g.timeout, "timeout", g.timeout, "Timeout of each request to the hub.")

	cmd.AddCommand(newPingCommand(g), newStateCommand(g))
	return cmd
}
