package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

type pingOptions struct {
	lat, lng, alt float64
	battery       int
	report        string
}

func newPingCommand(g *globalOptions) *cobra.Command {
	o := &pingOptions{}

	cmd := &cobra.Command{
		Use:   "ping CALLSIGN",
		Short: "Send one telemetry ping for a drone",
		Example: `  sentinelctl ping ALPHA-1 --lat 48.85 --lng 2.35 --alt 120 --battery 77
  sentinelctl ping ALPHA-1 --report "armed hostiles near the bridge"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ping := o.toPing(cmd)
			if err := ping.Validate(); err != nil {
				return err
			}

			client := newHubClient(g)
			if err := client.sendPing(cmd.Context(), args[0], ping); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ping for %s accepted\n", args[0])
			return nil
		},
	}

	cmd.Flags().Float64Var(&o.lat, "lat", 0, "Latitude in degrees.")
	cmd.Flags().Float64Var(&o.lng, "lng", 0, "Longitude in degrees.")
	cmd.Flags().Float64Var(&o.alt, "alt", 0, "Altitude.")
	cmd.Flags().IntVar(&o.battery, "battery", 0, "Battery percentage (0-100).")
	cmd.Flags().StringVar(&o.report, "report", "", "Free-text field report to classify.")
	return cmd
}

// toPing includes only the flags given on the command line, so unset
// fields keep their stored value on the hub.
func (o *pingOptions) toPing(cmd *cobra.Command) *model.TelemetryPing {
	p := &model.TelemetryPing{Report: o.report}
	if cmd.Flags().Changed("lat") {
		p.Lat = &o.lat
	}
	if cmd.Flags().Changed("lng") {
		p.Lng = &o.lng
	}
	if cmd.Flags().Changed("alt") {
		p.Alt = &o.alt
	}
	if cmd.Flags().Changed("battery") {
		p.Battery = &o.battery
	}
	return p
}
