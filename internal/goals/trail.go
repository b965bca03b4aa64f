package goals

import "github.com/alexanderramin/questbot/internal/domain"

// DayProgress is one checkpoint on the trail.
type DayProgress struct {
	Date      domain.DateKey
	Goal      int
	Completed int
	Reached   bool
}

// Trail returns days consecutive checkpoints starting at start.
func Trail(h History, start domain.DateKey, days int) []DayProgress {
	if days <= 0 {
		return nil
	}
	out := make([]DayProgress, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDays(i)
		r := h.Record(d)
		out = append(out, DayProgress{
			Date:      d,
			Goal:      r.Goal,
			Completed: r.Completed,
			Reached:   r.Reached(),
		})
	}
	return out
}

// Streak counts consecutive reached days ending at end. A day without a goal
// breaks the streak.
func Streak(h History, end domain.DateKey) int {
	n := 0
	for d := end; h.Record(d).Reached(); d = d.AddDays(-1) {
		n++
	}
	return n
}
