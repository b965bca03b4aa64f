package goals

import "github.com/alexanderramin/questbot/internal/domain"

const (
	// BaseGoal is the session target before level scaling and momentum.
	BaseGoal = 3
	// MinGoal is the floor applied after damping.
	MinGoal = 1
	// LookbackDays is how many prior days feed the damping count.
	LookbackDays = 3
)

// History supplies per-date records; missing dates read as (0, 0).
type History interface {
	Record(date domain.DateKey) domain.DailyRecord
}

// GenerateBalancedGoal computes the session target for date from the three
// preceding days and the current level.
//
//	goal = 3 + level/2 + momentum
//	if failed > 0: goal = max(1, goal - failed)
//
// momentum is 1 when yesterday met a nonzero goal. failed counts lookback
// days whose nonzero goal was missed.
func GenerateBalancedGoal(h History, date domain.DateKey, level int) int {
	if level < 1 {
		level = 1
	}

	failed := 0
	for i := 1; i <= LookbackDays; i++ {
		if h.Record(date.AddDays(-i)).Missed() {
			failed++
		}
	}

	momentum := 0
	if h.Record(date.AddDays(-1)).Reached() {
		momentum = 1
	}

	goal := BaseGoal + level/2 + momentum
	if failed > 0 {
		goal -= failed
		if goal < MinGoal {
			goal = MinGoal
		}
	}
	return goal
}

// Seeder stores a generated goal for dates that have none.
type Seeder interface {
	History
	HasGoal(date domain.DateKey) bool
	SetGoal(date domain.DateKey, goal int)
}

// EnsureGoal seeds date's goal when absent and reports whether it did.
func EnsureGoal(s Seeder, date domain.DateKey, level int) bool {
	if s.HasGoal(date) {
		return false
	}
	s.SetGoal(date, GenerateBalancedGoal(s, date, level))
	return true
}
