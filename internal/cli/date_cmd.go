package cli

import (
	"fmt"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/spf13/cobra"
)

func newDateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Change the day quest commands operate on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printViewedDate(cmd, app)
			return nil
		},
	}

	shift := func(use, short string, offset int) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				app.Engine.ShiftDate(offset)
				printViewedDate(cmd, app)
				return nil
			},
		}
	}

	cmd.AddCommand(
		shift("next", "View the following day", 1),
		shift("prev", "View the previous day", -1),
		&cobra.Command{
			Use:   "today",
			Short: "Return to today",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Engine.SetDate(app.Engine.Status().Today); err != nil {
					return err
				}
				printViewedDate(cmd, app)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <YYYY-MM-DD>",
			Short: "View an explicit date",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				date, err := domain.ParseDateKey(args[0])
				if err != nil {
					return err
				}
				if err := app.Engine.SetDate(date); err != nil {
					return err
				}
				printViewedDate(cmd, app)
				return nil
			},
		},
	)
	return cmd
}

func printViewedDate(cmd *cobra.Command, app *App) {
	st := app.Engine.Status()
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n",
		formatter.DateHeading(st.SelectedDate, st.Today),
		formatter.Dim("Goal"),
		formatter.RenderGoal(st.Completed, st.Goal))
}
