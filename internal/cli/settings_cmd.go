package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/alexanderramin/questbot/internal/config"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change timer durations and break activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(app.Engine.Status().Settings))
			return nil
		},
	}
	cmd.AddCommand(
		newSettingsSetCmd(app),
		newSettingsResetCmd(app),
		newSettingsActivitiesCmd(app),
	)
	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var pomodoro, brk string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change focus and break minutes",
		Long: `Change focus and break minutes. A value that is not a positive whole
number is rejected and that duration keeps its previous value. A running
timer keeps its deadline; new durations apply from the next interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pomodoro == "" && brk == "" {
				if !app.interactive() {
					return fmt.Errorf("pass --pomodoro and/or --break")
				}
				cur := app.Engine.Status().Settings
				pomodoro = strconv.Itoa(cur.PomodoroMinutes)
				brk = strconv.Itoa(cur.BreakMinutes)
				if err := settingsForm(&pomodoro, &brk).Run(); err != nil {
					return err
				}
			}

			err := app.Engine.UpdateSettings(pomodoro, brk)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(app.Engine.Status().Settings))
			return err
		},
	}

	cmd.Flags().StringVar(&pomodoro, "pomodoro", "", "Focus minutes")
	cmd.Flags().StringVar(&brk, "break", "", "Break minutes")
	return cmd
}

func newSettingsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default durations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Engine.ResetSettings()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success("Settings reset."))
			fmt.Fprint(out, formatter.FormatSettings(app.Engine.Status().Settings))
			return nil
		},
	}
}

func newSettingsActivitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show the break activity catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, a := range app.Engine.Status().Settings.BreakActivities {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim(fmt.Sprintf("%2d.", i+1)), a)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <activity>...",
		Short: "Replace the catalog and save it to the activities file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Engine.SetBreakActivities(args); err != nil {
				return err
			}
			if err := config.WriteActivities(app.Config.ActivitiesFile, args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Saved %d break activities to %s", len(args), app.Config.ActivitiesFile)))
			return nil
		},
	})
	return cmd
}
