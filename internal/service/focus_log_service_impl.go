package service

import (
	"context"
	"time"

	"github.com/alexanderramin/questbot/internal/db"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/repository"
	"github.com/alexanderramin/questbot/internal/snapshot"
	"github.com/google/uuid"
)

type focusLogService struct {
	sessions repository.FocusSessionRepo
	uow      db.UnitOfWork
	now      func() time.Time
}

func NewFocusLogService(sessions repository.FocusSessionRepo, uow db.UnitOfWork) FocusLogService {
	return &focusLogService{sessions: sessions, uow: uow, now: time.Now}
}

func (s *focusLogService) Checkpoint(ctx context.Context, events []engine.Event, st engine.State) (int, error) {
	var logs []*domain.FocusSessionLog
	for _, ev := range events {
		if ev.Kind != engine.EventFocusCompleted {
			continue
		}
		logs = append(logs, &domain.FocusSessionLog{
			ID:         uuid.New().String(),
			Date:       ev.Ref.Date,
			QuestID:    ev.Ref.QuestID,
			SubQuestID: ev.Ref.SubQuestID,
			QuestTitle: ev.QuestTitle,
			StartedAt:  ev.StartedAt,
			EndedAt:    ev.At,
			XPAwarded:  ev.XPAwarded,
			CreatedAt:  s.now().UTC(),
		})
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteFocusSessionRepo(tx)
		for _, l := range logs {
			if err := txSessions.Create(ctx, l); err != nil {
				return err
			}
		}
		return snapshot.SaveTx(ctx, tx, st)
	})
	if err != nil {
		return 0, err
	}
	return len(logs), nil
}

func (s *focusLogService) ListByDate(ctx context.Context, date domain.DateKey) ([]*domain.FocusSessionLog, error) {
	return s.sessions.ListByDate(ctx, date)
}

func (s *focusLogService) ListSince(ctx context.Context, since time.Time) ([]*domain.FocusSessionLog, error) {
	return s.sessions.ListSince(ctx, since)
}

// Summarize returns one entry per day in the window ending today, oldest
// first, including days without sessions.
func (s *focusLogService) Summarize(ctx context.Context, today domain.DateKey, days int) ([]DaySummary, error) {
	if days <= 0 {
		return nil, nil
	}
	start := today.AddDays(-(days - 1))
	logs, err := s.sessions.ListSince(ctx, start.Time())
	if err != nil {
		return nil, err
	}

	byDate := make(map[domain.DateKey]*DaySummary, days)
	out := make([]DaySummary, days)
	for i := range out {
		out[i].Date = start.AddDays(i)
		byDate[out[i].Date] = &out[i]
	}
	for _, l := range logs {
		sum, ok := byDate[l.Date]
		if !ok {
			continue
		}
		sum.Sessions++
		sum.Minutes += l.Minutes()
		sum.XP += l.XPAwarded
	}
	return out, nil
}
