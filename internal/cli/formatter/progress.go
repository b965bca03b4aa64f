package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampFraction(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 1:
		return 1
	default:
		return pct
	}
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = clampFraction(pct)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar(pct, width)), pct*100)
}

// RenderXPBar renders level progress in purple with the raw XP counts.
func RenderXPBar(intoLevel, perLevel, width int) string {
	pct := 0.0
	if perLevel > 0 {
		pct = clampFraction(float64(intoLevel) / float64(perLevel))
	}
	return fmt.Sprintf("%s %s", StylePurple.Render(bar(pct, width)), Dim(fmt.Sprintf("%d/%d XP", intoLevel, perLevel)))
}

// RenderGoal renders completed/goal as pips, e.g. ●●○ 2/3.
func RenderGoal(completed, goal int) string {
	if goal <= 0 {
		return Dim("no goal")
	}
	done := completed
	if done > goal {
		done = goal
	}
	pips := StyleGreen.Render(strings.Repeat("●", done)) + Dim(strings.Repeat("○", goal-done))
	label := fmt.Sprintf("%d/%d", completed, goal)
	if completed >= goal {
		label = StyleGreen.Render(label + " ✔")
	}
	return pips + " " + label
}
