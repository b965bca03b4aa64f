package cli

import (
	"fmt"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, today's goal, timer, and quests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, app)
		},
	}
}

func runStatus(cmd *cobra.Command, app *App) error {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(app.Engine.Status()))
	return nil
}
