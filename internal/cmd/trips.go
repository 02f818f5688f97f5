package cmd

import (
	"github.com/spf13/cobra"

	"bartrix.dev/gtfs-tools/internal/realtime"
)

func NewTripsCmd(app *GtfsCtlApp) *cobra.Command {
	cfg := realtime.Config{Format: realtime.FormatTrips}

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Print one summary line per entity in a GTFS-RT feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, app, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Url, "url", realtime.DefaultFeedURL, "GTFS-RT feed URL or local snapshot path")

	return cmd
}
