package engine

import (
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/progression"
)

type EventKind string

const (
	EventFocusCompleted EventKind = "focus_completed"
	EventBreakStarted   EventKind = "break_started"
	EventBreakCompleted EventKind = "break_completed"
	EventLevelUp        EventKind = "level_up"
)

// Event is queued by the engine and drained by the UI. LevelUp events are
// edge-triggered: one per award that crosses a level boundary.
type Event struct {
	Kind       EventKind
	At         time.Time
	Ref        domain.SubQuestRef
	QuestTitle string
	StartedAt  time.Time
	XPAwarded  int
	Activity   string
	LevelUp    *progression.LevelUp
}
