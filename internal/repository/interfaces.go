package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/questbot/internal/domain"
)

// KVRepo stores opaque string values by key. Used for the state snapshot
// and CLI bookkeeping.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// FocusSessionRepo is the append-only log of finished focus intervals.
type FocusSessionRepo interface {
	Create(ctx context.Context, s *domain.FocusSessionLog) error
	ListByDate(ctx context.Context, date domain.DateKey) ([]*domain.FocusSessionLog, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.FocusSessionLog, error)
	CountByDate(ctx context.Context, from, to domain.DateKey) (map[domain.DateKey]int, error)
}
