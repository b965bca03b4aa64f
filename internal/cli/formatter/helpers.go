package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatClock renders whole seconds as MM:SS. Hours roll into minutes.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// RelativeDay labels date against today: "Today", "Tomorrow", "Yesterday",
// or "Mon Jan 2".
func RelativeDay(date, today domain.DateKey) string {
	switch date {
	case today:
		return "Today"
	case today.AddDays(1):
		return "Tomorrow"
	case today.AddDays(-1):
		return "Yesterday"
	}
	t := date.Time()
	if t.IsZero() {
		return string(date)
	}
	return t.Format("Mon Jan 2")
}

// DateHeading combines the canonical date and its relative label.
func DateHeading(date, today domain.DateKey) string {
	return fmt.Sprintf("%s %s", Bold(string(date)), Dim("("+RelativeDay(date, today)+")"))
}

// ClockTime renders a local wall-clock time like 14:05.
func ClockTime(t time.Time) string {
	return t.Local().Format("15:04")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to max visible runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
