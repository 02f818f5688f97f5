package cmd

import (
	"github.com/spf13/cobra"

	"bartrix.dev/gtfs-tools/internal/static"
)

func NewStationsCmd(app *GtfsCtlApp) *cobra.Command {
	var cfg static.Config

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Print the stops of a static GTFS feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := app.loadConfig()
			if err != nil {
				return err
			}

			cfg.LogLevel = app.LogLevel
			cfg.ApplyFile(file, changedFlags(cmd.Flags()))
			if err := cfg.Validate(); err != nil {
				return err
			}

			return static.Execute(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&cfg.ZipPath, "zip", "", "Path to a static GTFS zip")
	cmd.Flags().StringVar(&cfg.Url, "url", "", "URL of a static GTFS zip")

	return cmd
}
