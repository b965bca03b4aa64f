package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newQuestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quest",
		Aliases: []string{"q"},
		Short:   "Manage quests on the viewed day",
	}
	cmd.AddCommand(
		newQuestAddCmd(app),
		newQuestListCmd(app),
	)
	return cmd
}

func newQuestAddCmd(app *App) *cobra.Command {
	var estimate int

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a quest with an estimated number of focus sessions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if title == "" {
				if !app.interactive() {
					return fmt.Errorf("quest title is required")
				}
				estimateStr := strconv.Itoa(estimate)
				if err := addQuestForm(&title, &estimateStr).Run(); err != nil {
					return err
				}
				estimate, _ = strconv.Atoi(strings.TrimSpace(estimateStr))
			}

			q, err := app.Engine.AddQuest(title, estimate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added quest %s (%d session(s)) on %s",
				formatter.Bold(q.Title), q.Estimated, app.Engine.SelectedDate())))
			return nil
		},
	}

	cmd.Flags().IntVarP(&estimate, "estimate", "e", 1, "Estimated focus sessions")
	return cmd
}

func newQuestListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List quests and sub-quests on the viewed day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.Engine.Status()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.DateHeading(st.SelectedDate, st.Today))
			fmt.Fprint(out, formatter.RenderQuestTree(st.Quests, formatter.TreeOptions{
				SelectedSubQuestID: selectedOn(st.Selection, st.SelectedDate),
			}))
			return nil
		},
	}
}
