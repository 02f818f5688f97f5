package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bartrix.dev/gtfs-tools/internal/common"
)

func NewVersionCmd(app *GtfsCtlApp) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gtfs-ctl %s (%s)\n", common.Version, common.GitCommit)
			return err
		},
	}
}
