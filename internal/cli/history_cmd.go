package cli

import (
	"fmt"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged focus sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			ctx := cmd.Context()
			today := app.Engine.Status().Today

			summary, err := app.FocusLog.Summarize(ctx, today, days)
			if err != nil {
				return err
			}
			sessions, err := app.FocusLog.ListSince(ctx, today.AddDays(-(days - 1)).Time())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(summary, sessions, today))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to include")
	return cmd
}
