package domain

import "sort"

// DatedQuests maps calendar dates to their quests in insertion order.
// Date keys are created lazily by the first Append for that date.
type DatedQuests struct {
	byDate map[DateKey][]*Quest
}

func NewDatedQuests() *DatedQuests {
	return &DatedQuests{byDate: make(map[DateKey][]*Quest)}
}

// Get returns the quests for date, or nil when the date has none.
func (d *DatedQuests) Get(date DateKey) []*Quest {
	return d.byDate[date]
}

// Append adds q to the end of date's sequence.
func (d *DatedQuests) Append(date DateKey, q *Quest) {
	d.byDate[date] = append(d.byDate[date], q)
}

// Find returns the quest with the given ID on date, or nil.
func (d *DatedQuests) Find(date DateKey, questID string) *Quest {
	for _, q := range d.byDate[date] {
		if q.ID == questID {
			return q
		}
	}
	return nil
}

// Dates returns every date holding quests, oldest first.
func (d *DatedQuests) Dates() []DateKey {
	dates := make([]DateKey, 0, len(d.byDate))
	for k := range d.byDate {
		dates = append(dates, k)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// DailyRecord is the goal and finished-session count for one date.
type DailyRecord struct {
	Goal      int
	Completed int
}

// Reached reports whether a nonzero goal was met.
func (r DailyRecord) Reached() bool {
	return r.Goal > 0 && r.Completed >= r.Goal
}

// Missed reports whether a nonzero goal was not met.
func (r DailyRecord) Missed() bool {
	return r.Goal > 0 && r.Completed < r.Goal
}

// DailyLedger holds the two parallel per-date mappings: goals and completed
// sessions. Completed is counted independently of quest counters so goal
// tracking survives quest edits.
type DailyLedger struct {
	goals     map[DateKey]int
	completed map[DateKey]int
}

func NewDailyLedger() *DailyLedger {
	return &DailyLedger{
		goals:     make(map[DateKey]int),
		completed: make(map[DateKey]int),
	}
}

// Record returns the date's record, defaulting missing values to zero.
func (l *DailyLedger) Record(date DateKey) DailyRecord {
	return DailyRecord{Goal: l.goals[date], Completed: l.completed[date]}
}

// HasGoal reports whether a goal has been stored for date.
func (l *DailyLedger) HasGoal(date DateKey) bool {
	_, ok := l.goals[date]
	return ok
}

func (l *DailyLedger) SetGoal(date DateKey, goal int) {
	if goal < 0 {
		goal = 0
	}
	l.goals[date] = goal
}

func (l *DailyLedger) IncrementCompleted(date DateKey) {
	l.completed[date]++
}

// SetCompleted overwrites the completed counter. Used when restoring snapshots.
func (l *DailyLedger) SetCompleted(date DateKey, n int) {
	if n < 0 {
		n = 0
	}
	l.completed[date] = n
}

// Goals returns a copy of the goal mapping.
func (l *DailyLedger) Goals() map[DateKey]int {
	return copyCounts(l.goals)
}

// CompletedCounts returns a copy of the completed mapping.
func (l *DailyLedger) CompletedCounts() map[DateKey]int {
	return copyCounts(l.completed)
}

func copyCounts(m map[DateKey]int) map[DateKey]int {
	out := make(map[DateKey]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy.
func (d *DatedQuests) Clone() *DatedQuests {
	c := NewDatedQuests()
	for date, qs := range d.byDate {
		for _, q := range qs {
			c.Append(date, q.Clone())
		}
	}
	return c
}

// Clone returns a deep copy.
func (l *DailyLedger) Clone() *DailyLedger {
	return &DailyLedger{goals: copyCounts(l.goals), completed: copyCounts(l.completed)}
}
