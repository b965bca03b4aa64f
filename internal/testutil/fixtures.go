package testutil

import (
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/google/uuid"
)

// FocusSessionOption customises a test focus session.
type FocusSessionOption func(*domain.FocusSessionLog)

func WithQuestTitle(title string) FocusSessionOption {
	return func(s *domain.FocusSessionLog) { s.QuestTitle = title }
}

func WithEndedAt(t time.Time) FocusSessionOption {
	return func(s *domain.FocusSessionLog) {
		d := s.EndedAt.Sub(s.StartedAt)
		s.EndedAt = t
		s.StartedAt = t.Add(-d)
	}
}

// NewTestFocusSession returns a 25-minute session on date worth the
// standard award.
func NewTestFocusSession(date domain.DateKey, opts ...FocusSessionOption) *domain.FocusSessionLog {
	start := date.Time().Add(9 * time.Hour)
	s := &domain.FocusSessionLog{
		ID:         uuid.New().String(),
		Date:       date,
		QuestID:    uuid.New().String(),
		SubQuestID: uuid.New().String(),
		QuestTitle: "Test Quest",
		StartedAt:  start,
		EndedAt:    start.Add(25 * time.Minute),
		XPAwarded:  250,
		CreatedAt:  start.Add(25 * time.Minute),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestQuest builds a quest with one sub-quest per title.
func NewTestQuest(title string, estimated int, subTitles ...string) *domain.Quest {
	q, err := domain.NewQuest(uuid.New().String(), title, estimated)
	if err != nil {
		panic(err)
	}
	for _, st := range subTitles {
		if _, err := q.AddSubQuest(uuid.New().String(), st); err != nil {
			panic(err)
		}
	}
	return q
}
