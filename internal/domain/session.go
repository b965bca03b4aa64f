package domain

import "time"

// FocusSessionLog records one finished focus interval.
type FocusSessionLog struct {
	ID         string
	Date       DateKey
	QuestID    string
	SubQuestID string
	QuestTitle string
	StartedAt  time.Time
	EndedAt    time.Time
	XPAwarded  int
	CreatedAt  time.Time
}

// Minutes is the wall-clock length of the interval, pauses included.
func (s *FocusSessionLog) Minutes() int {
	return int(s.EndedAt.Sub(s.StartedAt).Round(time.Minute) / time.Minute)
}
