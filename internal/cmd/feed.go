package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bartrix.dev/gtfs-tools/internal/realtime"
)

func changedFlags(flags *pflag.FlagSet) map[string]bool {
	changed := map[string]bool{}
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	return changed
}

func runFeed(cmd *cobra.Command, app *GtfsCtlApp, cfg realtime.Config) error {
	file, err := app.loadConfig()
	if err != nil {
		return err
	}

	explicit := changedFlags(cmd.Flags())
	// Commands without --format print in their own fixed format.
	if cmd.Flags().Lookup("format") == nil {
		explicit["format"] = true
	}

	cfg.LogLevel = app.LogLevel
	cfg.ApplyFile(file, explicit)
	if err := cfg.Validate(); err != nil {
		return err
	}

	return realtime.Execute(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func NewFeedCmd(app *GtfsCtlApp) *cobra.Command {
	var cfg realtime.Config

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Fetch a GTFS-RT feed once and print every entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, app, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Url, "url", realtime.DefaultFeedURL, "GTFS-RT feed URL or local snapshot path")
	cmd.Flags().StringVar(&cfg.Format, "format", realtime.FormatText, "Output format: "+strings.Join(realtime.Formats, "|"))
	cmd.Flags().BoolVar(&cfg.DumpMetrics, "metrics", false, "Dump Prometheus metrics to stderr before exiting")
	cmd.Flags().StringVar(&cfg.TelemetryAddr, "telemetry", "", "Serve /metrics and pprof on this address while running")

	return cmd
}
