package cli

import (
	"fmt"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTrailCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Show daily goal checkpoints ending today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			st := app.Engine.Status()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrail(app.Engine.Trail(days), st.Today, app.Engine.Streak()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", app.Config.TrailDays, "Number of days to show")
	return cmd
}
