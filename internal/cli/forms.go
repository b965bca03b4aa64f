package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/questbot/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// questbotHuhTheme returns a huh theme using the gruvbox palette.
func questbotHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// addQuestForm collects a quest title and its estimated session count.
func addQuestForm(title, estimate *string) *huh.Form {
	if *estimate == "" || *estimate == "0" {
		*estimate = "1"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quest").
				Placeholder("Write chapter 3").
				Value(title).
				Validate(validateRequired),
			huh.NewInput().
				Title("Estimated sessions").
				Placeholder("4").
				Value(estimate).
				Validate(validatePositiveInt),
		),
	).WithTheme(questbotHuhTheme()).WithShowHelp(false)
}

// subQuestForm collects one sub-quest title for questTitle.
func subQuestForm(questTitle string, title *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sub-quest").
				Description(questTitle).
				Value(title).
				Validate(validateRequired),
		),
	).WithTheme(questbotHuhTheme()).WithShowHelp(false)
}

// settingsForm edits both durations in minutes. Fields are prefilled with
// the current values.
func settingsForm(pomodoro, brk *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Focus minutes").
				Value(pomodoro).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Break minutes").
				Value(brk).
				Validate(validatePositiveInt),
		),
	).WithTheme(questbotHuhTheme()).WithShowHelp(false)
}

// validatePositiveInt accepts a whole number greater than zero.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}
