package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/questbot/internal/domain"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
)

// TreeOptions controls highlighting in RenderQuestTree.
type TreeOptions struct {
	// SelectedSubQuestID marks the focus target.
	SelectedSubQuestID string
	// CursorSubQuestID marks the row under the TUI cursor.
	CursorSubQuestID string
}

// RenderQuestTree renders quests as numbered roots with their sub-quests as
// branches. Numbers match the positional arguments the CLI accepts.
func RenderQuestTree(quests []*domain.Quest, opts TreeOptions) string {
	if len(quests) == 0 {
		return Dim("No quests for this day.") + "\n"
	}

	var b strings.Builder
	for qi, q := range quests {
		title := Bold(q.Title)
		if q.IsComplete {
			title = StyleGreen.Render("✔ ") + Dim(q.Title)
		}
		fmt.Fprintf(&b, "%s %s  %s\n",
			Dim(fmt.Sprintf("%d.", qi+1)),
			title,
			RenderGoal(q.Completed, q.Estimated))

		for si, sub := range q.SubQuests {
			connector := treeBranch
			if si == len(q.SubQuests)-1 && q.SlotsRemaining() == 0 {
				connector = treeCorner
			}
			b.WriteString("   " + Dim(connector) + subQuestLine(si+1, sub, opts) + "\n")
		}
		if n := q.SlotsRemaining(); n > 0 {
			b.WriteString("   " + Dim(treeCorner) + Dim(fmt.Sprintf("%d open slot(s)", n)) + "\n")
		}
	}
	return b.String()
}

func subQuestLine(seq int, sub domain.SubQuest, opts TreeOptions) string {
	label := fmt.Sprintf("%d. %s", seq, sub.Title)
	var line string
	switch {
	case sub.IsComplete:
		line = StyleGreen.Render("✔ ") + Dim(label)
	case sub.ID == opts.SelectedSubQuestID:
		line = StyleYellowBold.Render("▶ " + label)
	default:
		line = StyleFg.Render("○ " + label)
	}
	if opts.CursorSubQuestID != "" && sub.ID == opts.CursorSubQuestID {
		line = StyleHeader.Render("› ") + line
	}
	return line
}
