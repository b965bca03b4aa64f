package service

import (
	"context"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
)

// DaySummary aggregates one day of the focus log.
type DaySummary struct {
	Date     domain.DateKey
	Sessions int
	Minutes  int
	XP       int
}

// FocusLogService records finished focus intervals and reads them back.
type FocusLogService interface {
	// Checkpoint appends every focus completion in events and saves st in
	// the same transaction. Other event kinds are ignored.
	Checkpoint(ctx context.Context, events []engine.Event, st engine.State) (int, error)
	ListByDate(ctx context.Context, date domain.DateKey) ([]*domain.FocusSessionLog, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.FocusSessionLog, error)
	Summarize(ctx context.Context, today domain.DateKey, days int) ([]DaySummary, error)
}
