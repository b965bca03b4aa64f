package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/goals"
	"github.com/alexanderramin/questbot/internal/service"
)

// FormatTrail renders one checkpoint per day, oldest first, with a streak
// footer.
func FormatTrail(days []goals.DayProgress, today domain.DateKey, streak int) string {
	if len(days) == 0 {
		return Dim("No days to show.") + "\n"
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		marker := Dim("·")
		switch {
		case d.Reached:
			marker = StyleGreen.Render("★")
		case d.Goal > 0 && d.Date != today && d.Date < today:
			marker = StyleRed.Render("✗")
		case d.Date == today:
			marker = StyleYellow.Render("◆")
		}
		rows = append(rows, []string{
			marker,
			string(d.Date),
			RelativeDay(d.Date, today),
			RenderGoal(d.Completed, d.Goal),
		})
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"", "DATE", "DAY", "SESSIONS"}, rows))
	fmt.Fprintf(&b, "\n%s %s\n", Dim("Current streak:"), Bold(fmt.Sprintf("%d day(s)", streak)))
	return b.String()
}

// FormatHistory renders the per-day summary followed by individual sessions.
func FormatHistory(summary []service.DaySummary, sessions []*domain.FocusSessionLog, today domain.DateKey) string {
	var b strings.Builder

	rows := make([][]string, 0, len(summary))
	total := service.DaySummary{}
	for _, d := range summary {
		total.Sessions += d.Sessions
		total.Minutes += d.Minutes
		total.XP += d.XP
		rows = append(rows, []string{
			string(d.Date),
			RelativeDay(d.Date, today),
			fmt.Sprintf("%d", d.Sessions),
			FormatMinutes(d.Minutes),
			fmt.Sprintf("%d", d.XP),
		})
	}
	b.WriteString(RenderTable([]string{"DATE", "DAY", "SESSIONS", "FOCUSED", "XP"}, rows))
	fmt.Fprintf(&b, "%s %d sessions, %s focused, %d XP\n\n",
		Dim("Total:"), total.Sessions, FormatMinutes(total.Minutes), total.XP)

	if len(sessions) == 0 {
		b.WriteString(Dim("No focus sessions recorded.") + "\n")
		return b.String()
	}
	srows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		srows = append(srows, []string{
			TruncID(s.ID),
			string(s.Date),
			ClockTime(s.StartedAt) + "–" + ClockTime(s.EndedAt),
			Truncate(s.QuestTitle, 40),
			FormatMinutes(s.Minutes()),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "DATE", "TIME", "QUEST", "LENGTH"}, srows))
	return b.String()
}
