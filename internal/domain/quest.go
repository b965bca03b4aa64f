package domain

import (
	"fmt"
	"strings"
)

type SubQuest struct {
	ID         string
	Title      string
	IsComplete bool
}

type Quest struct {
	ID         string
	Title      string
	Estimated  int
	Completed  int
	IsComplete bool
	SubQuests  []SubQuest
}

// NewQuest validates the inputs and returns an empty quest.
func NewQuest(id, title string, estimated int) (*Quest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if estimated <= 0 {
		return nil, fmt.Errorf("%d: %w", estimated, ErrInvalidEstimate)
	}
	return &Quest{ID: id, Title: title, Estimated: estimated}, nil
}

// SlotsRemaining is the number of sub-quests that can still be added.
func (q *Quest) SlotsRemaining() int {
	n := q.Estimated - len(q.SubQuests)
	if n < 0 {
		return 0
	}
	return n
}

// AddSubQuest appends a new incomplete sub-quest while a slot remains.
func (q *Quest) AddSubQuest(id, title string) (*SubQuest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(q.SubQuests) >= q.Estimated {
		return nil, fmt.Errorf("quest %q holds %d/%d: %w", q.Title, len(q.SubQuests), q.Estimated, ErrCapacityReached)
	}
	q.SubQuests = append(q.SubQuests, SubQuest{ID: id, Title: title})
	return &q.SubQuests[len(q.SubQuests)-1], nil
}

// FindSubQuest returns the sub-quest with the given ID, or nil.
func (q *Quest) FindSubQuest(id string) *SubQuest {
	for i := range q.SubQuests {
		if q.SubQuests[i].ID == id {
			return &q.SubQuests[i]
		}
	}
	return nil
}

// CompleteSubQuest flips the sub-quest to complete and counts one finished
// session against the quest. Returns false when the sub-quest was already
// complete; counters are untouched in that case.
func (q *Quest) CompleteSubQuest(id string) (bool, error) {
	sub := q.FindSubQuest(id)
	if sub == nil {
		return false, fmt.Errorf("sub-quest %s: %w", id, ErrSubQuestNotFound)
	}
	if sub.IsComplete {
		return false, nil
	}
	sub.IsComplete = true
	q.Completed++
	if q.Completed >= q.Estimated {
		q.IsComplete = true
	}
	return true, nil
}

// SubQuestsDone counts completed sub-quests.
func (q *Quest) SubQuestsDone() int {
	n := 0
	for _, s := range q.SubQuests {
		if s.IsComplete {
			n++
		}
	}
	return n
}

// Clone returns a deep copy safe to hand out of the engine.
func (q *Quest) Clone() *Quest {
	c := *q
	c.SubQuests = append([]SubQuest(nil), q.SubQuests...)
	return &c
}

// SubQuestRef addresses one sub-quest within the date-keyed hierarchy.
type SubQuestRef struct {
	Date       DateKey
	QuestID    string
	SubQuestID string
}
