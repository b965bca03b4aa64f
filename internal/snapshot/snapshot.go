// Package snapshot persists engine state as one JSON document in the
// key-value table and debounces writes.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
)

// StateKey is the kv_store key holding the tracker snapshot.
const StateKey = "@questbot/state"

// ErrMalformed wraps every decode or validation failure.
var ErrMalformed = errors.New("malformed snapshot")

type subQuestJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	IsComplete bool   `json:"isComplete"`
}

type questJSON struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Estimated  int            `json:"estimated"`
	Completed  int            `json:"completed"`
	IsComplete bool           `json:"isComplete"`
	SubQuests  []subQuestJSON `json:"subQuests"`
}

// Snapshot is the serialized tracker. Timer state is not part of it.
type Snapshot struct {
	QuestsByDate            map[string][]questJSON `json:"questsByDate"`
	XP                      int                    `json:"xp"`
	PomodoroDurationSeconds int                    `json:"pomodoroDurationSeconds"`
	BreakDurationSeconds    int                    `json:"breakDurationSeconds"`
	DailyGoals              map[string]int         `json:"dailyGoals"`
	CompletedTasks          map[string]int         `json:"completedTasks"`
}

// FromState captures st for serialization.
func FromState(st engine.State) Snapshot {
	s := Snapshot{
		QuestsByDate:            make(map[string][]questJSON),
		XP:                      st.XP,
		PomodoroDurationSeconds: st.Settings.PomodoroMinutes * 60,
		BreakDurationSeconds:    st.Settings.BreakMinutes * 60,
		DailyGoals:              make(map[string]int),
		CompletedTasks:          make(map[string]int),
	}
	if st.Quests != nil {
		for _, date := range st.Quests.Dates() {
			for _, q := range st.Quests.Get(date) {
				s.QuestsByDate[string(date)] = append(s.QuestsByDate[string(date)], encodeQuest(q))
			}
		}
	}
	if st.Ledger != nil {
		for d, g := range st.Ledger.Goals() {
			s.DailyGoals[string(d)] = g
		}
		for d, n := range st.Ledger.CompletedCounts() {
			s.CompletedTasks[string(d)] = n
		}
	}
	return s
}

func encodeQuest(q *domain.Quest) questJSON {
	out := questJSON{
		ID:         q.ID,
		Title:      q.Title,
		Estimated:  q.Estimated,
		Completed:  q.Completed,
		IsComplete: q.IsComplete,
		SubQuests:  make([]subQuestJSON, 0, len(q.SubQuests)),
	}
	for _, sub := range q.SubQuests {
		out.SubQuests = append(out.SubQuests, subQuestJSON{ID: sub.ID, Title: sub.Title, IsComplete: sub.IsComplete})
	}
	return out
}

// Encode serializes st.
func Encode(st engine.State) (string, error) {
	b, err := json.Marshal(FromState(st))
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(b), nil
}

// Decode parses raw and validates it. The activity catalog is not part of the
// snapshot and comes from catalog.
func Decode(raw string, catalog []string) (engine.State, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return engine.State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s.State(catalog)
}

// State converts the snapshot back into engine state, rejecting anything
// that violates the quest or duration invariants.
func (s Snapshot) State(catalog []string) (engine.State, error) {
	st := engine.DefaultState()
	if len(catalog) > 0 {
		st.Settings.BreakActivities = append([]string(nil), catalog...)
	}

	if s.XP < 0 {
		return engine.State{}, fmt.Errorf("%w: negative xp %d", ErrMalformed, s.XP)
	}
	st.XP = s.XP

	if s.PomodoroDurationSeconds < 60 || s.PomodoroDurationSeconds%60 != 0 {
		return engine.State{}, fmt.Errorf("%w: pomodoro duration %ds", ErrMalformed, s.PomodoroDurationSeconds)
	}
	if s.BreakDurationSeconds < 60 || s.BreakDurationSeconds%60 != 0 {
		return engine.State{}, fmt.Errorf("%w: break duration %ds", ErrMalformed, s.BreakDurationSeconds)
	}
	st.Settings.PomodoroMinutes = s.PomodoroDurationSeconds / 60
	st.Settings.BreakMinutes = s.BreakDurationSeconds / 60

	for rawDate, quests := range s.QuestsByDate {
		date, err := domain.ParseDateKey(rawDate)
		if err != nil {
			return engine.State{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		for _, qj := range quests {
			q, err := decodeQuest(qj)
			if err != nil {
				return engine.State{}, fmt.Errorf("%w: %s: %v", ErrMalformed, rawDate, err)
			}
			st.Quests.Append(date, q)
		}
	}

	for rawDate, g := range s.DailyGoals {
		date, err := domain.ParseDateKey(rawDate)
		if err != nil || g < 0 {
			return engine.State{}, fmt.Errorf("%w: goal %q=%d", ErrMalformed, rawDate, g)
		}
		st.Ledger.SetGoal(date, g)
	}
	for rawDate, n := range s.CompletedTasks {
		date, err := domain.ParseDateKey(rawDate)
		if err != nil || n < 0 {
			return engine.State{}, fmt.Errorf("%w: completed %q=%d", ErrMalformed, rawDate, n)
		}
		st.Ledger.SetCompleted(date, n)
	}
	return st, nil
}

func decodeQuest(qj questJSON) (*domain.Quest, error) {
	if strings.TrimSpace(qj.ID) == "" {
		return nil, errors.New("quest without id")
	}
	q, err := domain.NewQuest(qj.ID, qj.Title, qj.Estimated)
	if err != nil {
		return nil, err
	}
	if len(qj.SubQuests) > q.Estimated {
		return nil, fmt.Errorf("quest %s: %d sub-quests over estimate %d", qj.ID, len(qj.SubQuests), q.Estimated)
	}
	if qj.Completed < 0 || qj.Completed > q.Estimated {
		return nil, fmt.Errorf("quest %s: completed %d out of range", qj.ID, qj.Completed)
	}
	for _, sj := range qj.SubQuests {
		if _, err := q.AddSubQuest(sj.ID, sj.Title); err != nil {
			return nil, fmt.Errorf("quest %s: %w", qj.ID, err)
		}
		q.SubQuests[len(q.SubQuests)-1].IsComplete = sj.IsComplete
	}
	q.Completed = qj.Completed
	q.IsComplete = qj.IsComplete || q.Completed >= q.Estimated
	return q, nil
}
