package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

func newStateCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state CALLSIGN...",
		Short: "Show the live state of one or more drones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newHubClient(g)

			table := uitable.New()
			table.MaxColWidth = 60
			table.Wrap = true
			table.AddRow("CALLSIGN", "LAT", "LNG", "ALT", "BATTERY", "LAST SEEN", "THREAT", "REPORT")

			for _, callSign := range args {
				snap, err := client.getState(cmd.Context(), callSign)
				if errors.Is(err, errNotFound) {
					table.AddRow(callSign, "-", "-", "-", "-", "never", "-", "-")
					continue
				}
				if err != nil {
					return fmt.Errorf("%s: %w", callSign, err)
				}
				addSnapshotRow(table, snap)
			}

			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func addSnapshotRow(table *uitable.Table, s *model.DeviceSnapshot) {
	lastSeen := "-"
	if s.LastSeenEpochMillis > 0 {
		lastSeen = time.UnixMilli(s.LastSeenEpochMillis).UTC().Format(time.RFC3339)
	}
	threat, report := string(s.ThreatLevel), s.LastReport
	if threat == "" {
		threat = "-"
	}
	if report == "" {
		report = "-"
	}
	table.AddRow(
		s.CallSign,
		strconv.FormatFloat(s.Lat, 'f', -1, 64),
		strconv.FormatFloat(s.Lng, 'f', -1, 64),
		strconv.FormatFloat(s.Alt, 'f', -1, 64),
		strconv.Itoa(s.Battery),
		lastSeen,
		threat,
		report,
	)
}
