package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newFocusCmd(app *App) *cobra.Command {
	var headless, noBreak bool

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run the focus timer",
		Long: `Run the focus timer on the selected sub-quest.

In a terminal this opens the interactive timer. With --headless (or when
stdin is not a terminal) one focus interval runs in the foreground, printing
progress lines, followed by its break unless --no-break is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && !headless {
				return runFocusTUI(cmd, app)
			}
			if err := app.Engine.StartFocus(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ticker := time.NewTicker(tickInterval)
			defer ticker.Stop()
			return runHeadlessFocus(ctx, app, cmd.OutOrStdout(), ticker.C, noBreak)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Print progress lines instead of opening the timer screen")
	cmd.Flags().BoolVar(&noBreak, "no-break", false, "Exit when the focus interval ends")
	return cmd
}

func runFocusTUI(cmd *cobra.Command, app *App) error {
	p := tea.NewProgram(newFocusModel(app),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}

// runHeadlessFocus drives a started focus interval from ticks. It returns
// when the break ends, when the focus ends and noBreak is set, or when ctx is
// cancelled, which stops the timer without an award.
func runHeadlessFocus(ctx context.Context, app *App, out io.Writer, ticks <-chan time.Time, noBreak bool) error {
	eng := app.Engine
	st := eng.Status()
	fmt.Fprintf(out, "%s %s  %s\n", formatter.ModeBadge(st.Mode, false), focusTargetLabel(st), formatter.FormatClock(st.RemainingSeconds))

	lastMinute := st.RemainingSeconds / 60
	for {
		select {
		case <-ctx.Done():
			eng.Stop()
			fmt.Fprintln(out, formatter.Dim("Stopped. Nothing was awarded."))
			return nil
		case <-ticks:
		}

		outcome := eng.Tick()
		events := eng.DrainEvents()
		for _, ev := range events {
			fmt.Fprintln(out, describeEvent(ev))
		}
		if len(events) > 0 {
			if _, err := app.FocusLog.Checkpoint(ctx, events, eng.Export()); err != nil {
				return fmt.Errorf("saving focus log: %w", err)
			}
		}

		switch outcome {
		case timer.OutcomeFocusDone:
			if noBreak {
				_ = eng.SkipBreak()
				return nil
			}
		case timer.OutcomeBreakDone:
			return nil
		}

		if !eng.TimerRunning() {
			return nil
		}
		st := eng.Status()
		if m := st.RemainingSeconds / 60; m != lastMinute {
			lastMinute = m
			fmt.Fprintf(out, "%s %s\n", formatter.ModeBadge(st.Mode, st.Paused), formatter.FormatClock(st.RemainingSeconds))
		}
	}
}

// describeEvent renders one engine event as a plain progress line.
func describeEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventFocusCompleted:
		return formatter.Success(fmt.Sprintf("%s done. +%d XP", ev.QuestTitle, ev.XPAwarded))
	case engine.EventLevelUp:
		return formatter.StyleYellowBold.Render(fmt.Sprintf("Level up! %d → %d", ev.LevelUp.From, ev.LevelUp.To))
	case engine.EventBreakStarted:
		return formatter.StyleGreen.Render("Break time: " + ev.Activity)
	case engine.EventBreakCompleted:
		return formatter.Dim("Break over.")
	}
	return string(ev.Kind)
}
