package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/questbot/internal/db"
	"github.com/alexanderramin/questbot/internal/domain"
	"github.com/alexanderramin/questbot/internal/engine"
	"github.com/alexanderramin/questbot/internal/repository"
)

// SessionKey holds CLI navigation state between one-shot commands.
const SessionKey = "@questbot/cli"

// Store loads and saves snapshots through the kv_store table.
type Store struct {
	db       db.DBTX
	uow      db.UnitOfWork
	logger   *slog.Logger
	defaults domain.Settings
}

type StoreOption func(*Store)

func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithDefaults sets the settings used when no valid snapshot exists. Its
// activity catalog is applied to every loaded snapshot.
func WithDefaults(settings domain.Settings) StoreOption {
	return func(s *Store) {
		if settings.Validate() == nil {
			s.defaults = settings
		}
	}
}

func NewStore(conn db.DBTX, uow db.UnitOfWork, opts ...StoreOption) *Store {
	s := &Store{
		db:       conn,
		uow:      uow,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaults: domain.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) defaultState() engine.State {
	st := engine.DefaultState()
	st.Settings = s.defaults
	st.Settings.BreakActivities = append([]string(nil), s.defaults.BreakActivities...)
	return st
}

// Load returns the saved state. A missing snapshot yields defaults silently;
// an unreadable one yields defaults and a warning.
func (s *Store) Load(ctx context.Context) engine.State {
	raw, err := repository.NewSQLiteKVRepo(s.db).Get(ctx, StateKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("snapshot read failed, using defaults", "error", err)
		}
		return s.defaultState()
	}
	st, err := Decode(raw, s.defaults.BreakActivities)
	if err != nil {
		s.logger.Warn("snapshot unreadable, using defaults", "error", err)
		return s.defaultState()
	}
	return st
}

// Save writes st in its own transaction.
func (s *Store) Save(ctx context.Context, st engine.State) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return SaveTx(ctx, tx, st)
	})
}

// SaveTx writes st using an open transaction so callers can combine it with
// other writes.
func SaveTx(ctx context.Context, tx db.DBTX, st engine.State) error {
	raw, err := Encode(st)
	if err != nil {
		return err
	}
	if err := repository.NewSQLiteKVRepo(tx).Set(ctx, StateKey, raw); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Session is the CLI's view position: the date being browsed and the focus
// target, if any.
type Session struct {
	SelectedDate domain.DateKey      `json:"selectedDate,omitempty"`
	Selection    *domain.SubQuestRef `json:"selection,omitempty"`
}

// LoadSession returns the saved CLI session, or an empty one.
func (s *Store) LoadSession(ctx context.Context) Session {
	raw, err := repository.NewSQLiteKVRepo(s.db).Get(ctx, SessionKey)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		s.logger.Warn("cli session unreadable, resetting", "error", err)
		return Session{}
	}
	if sess.SelectedDate != "" && !sess.SelectedDate.Valid() {
		sess.SelectedDate = ""
	}
	return sess
}

func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding cli session: %w", err)
	}
	return repository.NewSQLiteKVRepo(s.db).Set(ctx, SessionKey, string(b))
}
