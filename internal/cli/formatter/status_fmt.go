package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/progression"
)

// FormatProgression renders the level line, XP bar, and next-tier preview.
func FormatProgression(v progression.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		v.Tier.Emoji,
		Bold(fmt.Sprintf("Level %d %s", v.Level, v.Tier.Name)),
		Dim(v.Tier.Description))
	fmt.Fprintf(&b, "%s  %s\n",
		RenderXPBar(v.LevelProgress, progression.XPPerLevel, 20),
		Dim(fmt.Sprintf("%d XP total, %d to next level", v.XP, v.XPToNext)))
	if v.Next != nil {
		fmt.Fprintf(&b, "%s %s %s\n", Dim("Next:"), v.Next.Emoji, Dim(fmt.Sprintf("%s at level %d", v.Next.Name, v.Next.Level)))
	}
	return b.String()
}

// FormatTimer renders the mode badge and countdown.
func FormatTimer(st engine.Status) string {
	line := fmt.Sprintf("%s  %s", ModeBadge(st.Mode, st.Paused), ModeStyle(st.Mode).Bold(true).Render(FormatClock(st.RemainingSeconds)))
	if st.Mode == domain.TimerBreak && st.Activity != "" {
		line += "  " + StyleGreen.Render("Try: "+st.Activity)
	}
	return line
}

// FormatStatus renders the full one-shot status screen.
func FormatStatus(st engine.Status) string {
	var b strings.Builder
	b.WriteString(FormatProgression(st.Progression))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s %s\n", DateHeading(st.SelectedDate, st.Today), Dim("Goal"), RenderGoal(st.Completed, st.Goal))
	b.WriteString(FormatTimer(st) + "\n")
	if sel := selectionLabel(st); sel != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Focus target:"), StyleYellow.Render(sel))
	}
	b.WriteString("\n")
	b.WriteString(RenderQuestTree(st.Quests, treeOptions(st)))
	return RenderBox("QuestBot", strings.TrimRight(b.String(), "\n"))
}

func treeOptions(st engine.Status) TreeOptions {
	if st.Selection == nil || st.Selection.Date != st.SelectedDate {
		return TreeOptions{}
	}
	return TreeOptions{SelectedSubQuestID: st.Selection.SubQuestID}
}

// selectionLabel names the focus target as "Quest › Sub-quest".
func selectionLabel(st engine.Status) string {
	if st.Selection == nil {
		return ""
	}
	for _, q := range st.Quests {
		if q.ID != st.Selection.QuestID {
			continue
		}
		if sub := q.FindSubQuest(st.Selection.SubQuestID); sub != nil {
			return q.Title + " › " + sub.Title
		}
	}
	return string(st.Selection.Date) + " (another day)"
}

// FormatSettings lists the timer settings and break catalog.
func FormatSettings(s domain.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Focus:"), Bold(fmt.Sprintf("%d min", s.PomodoroMinutes)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Break:"), Bold(fmt.Sprintf("%d min", s.BreakMinutes)))
	b.WriteString(Dim("Break activities:") + "\n")
	for _, a := range s.BreakActivities {
		b.WriteString("  • " + a + "\n")
	}
	return b.String()
}
