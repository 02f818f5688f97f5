package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bartrix.dev/gtfs-tools/internal/config"
)

type GtfsCtlApp struct {
	ConfigPath string
	LogLevel   string
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &GtfsCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func NewRootCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gtfs-ctl",
		Short:         "CLI tool used to inspect GTFS static and real-time feeds",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"",
		"Path to configuration file (.toml or .yaml)",
	)
	cmd.PersistentFlags().StringVar(
		&app.LogLevel,
		"log-level",
		"info",
		"Log level for stderr: debug|info|warn|error",
	)

	cmd.AddCommand(NewFeedCmd(app))
	cmd.AddCommand(NewTripsCmd(app))
	cmd.AddCommand(NewStationsCmd(app))
	cmd.AddCommand(NewVersionCmd(app))

	return cmd
}

// loadConfig returns the zero File when no --config was given.
func (app *GtfsCtlApp) loadConfig() (config.File, error) {
	if app.ConfigPath == "" {
		return config.File{}, nil
	}
	return config.Load(app.ConfigPath)
}
