package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/spf13/cobra"
)

func newSubQuestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subquest",
		Aliases: []string{"sq"},
		Short:   "Manage sub-quests and the focus target",
	}
	cmd.AddCommand(
		newSubQuestAddCmd(app),
		newSubQuestSelectCmd(app),
	)
	return cmd
}

func newSubQuestAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <quest> <title>",
		Short: "Add a sub-quest while the quest has open slots",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := resolveQuest(app.Engine.Status().Quests, args[0])
			if err != nil {
				return err
			}
			sub, err := app.Engine.AddSubQuest(q.ID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added %s to %s (%d/%d slots used)",
				formatter.Bold(sub.Title), q.Title, len(q.SubQuests)+1, q.Estimated)))
			return nil
		},
	}
}

func newSubQuestSelectCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "select <quest> <sub-quest>",
		Short: "Toggle the focus target",
		Args: func(cmd *cobra.Command, args []string) error {
			if clear {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if clear {
				if err := app.Engine.SelectSubQuest("", ""); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Dim("Focus target cleared."))
				return nil
			}

			q, err := resolveQuest(app.Engine.Status().Quests, args[0])
			if err != nil {
				return err
			}
			sub, err := resolveSubQuest(q, args[1])
			if err != nil {
				return err
			}
			if err := app.Engine.SelectSubQuest(q.ID, sub.ID); err != nil {
				return err
			}
			if app.Engine.Selection() == nil {
				fmt.Fprintln(out, formatter.Dim("Deselected "+sub.Title+"."))
				return nil
			}
			fmt.Fprintln(out, formatter.Success("Focus target: "+formatter.Bold(q.Title+" › "+sub.Title)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the focus target")
	return cmd
}

// selectedOn returns the selected sub-quest ID when it lives on date.
func selectedOn(sel *domain.SubQuestRef, date domain.DateKey) string {
	if sel == nil || sel.Date != date {
		return ""
	}
	return sel.SubQuestID
}
