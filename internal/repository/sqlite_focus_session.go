package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/questbot/internal/db"
	"github.com/alexanderramin/questbot/internal/domain"
)

// SQLiteFocusSessionRepo implements FocusSessionRepo using SQLite.
type SQLiteFocusSessionRepo struct {
	db db.DBTX
}

func NewSQLiteFocusSessionRepo(conn db.DBTX) *SQLiteFocusSessionRepo {
	return &SQLiteFocusSessionRepo{db: conn}
}

const focusSessionColumns = `id, date, quest_id, sub_quest_id, quest_title, started_at, ended_at, xp_awarded, created_at`

func (r *SQLiteFocusSessionRepo) Create(ctx context.Context, s *domain.FocusSessionLog) error {
	query := `INSERT INTO focus_sessions (` + focusSessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		string(s.Date),
		s.QuestID,
		s.SubQuestID,
		s.QuestTitle,
		formatTime(s.StartedAt),
		formatTime(s.EndedAt),
		s.XPAwarded,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

func (r *SQLiteFocusSessionRepo) ListByDate(ctx context.Context, date domain.DateKey) ([]*domain.FocusSessionLog, error) {
	query := `SELECT ` + focusSessionColumns + ` FROM focus_sessions WHERE date = ? ORDER BY ended_at`
	rows, err := r.db.QueryContext(ctx, query, string(date))
	if err != nil {
		return nil, fmt.Errorf("listing focus sessions by date: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListSince returns sessions that ended at or after since, newest first.
func (r *SQLiteFocusSessionRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.FocusSessionLog, error) {
	query := `SELECT ` + focusSessionColumns + ` FROM focus_sessions WHERE ended_at >= ? ORDER BY ended_at DESC`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing recent focus sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// CountByDate counts sessions per date in the inclusive range.
func (r *SQLiteFocusSessionRepo) CountByDate(ctx context.Context, from, to domain.DateKey) (map[domain.DateKey]int, error) {
	query := `SELECT date, COUNT(*) FROM focus_sessions WHERE date >= ? AND date <= ? GROUP BY date`
	rows, err := r.db.QueryContext(ctx, query, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("counting focus sessions: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DateKey]int)
	for rows.Next() {
		var date string
		var n int
		if err := rows.Scan(&date, &n); err != nil {
			return nil, fmt.Errorf("scanning focus session count: %w", err)
		}
		counts[domain.DateKey(date)] = n
	}
	return counts, rows.Err()
}

func (r *SQLiteFocusSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.FocusSessionLog, error) {
	var sessions []*domain.FocusSessionLog
	for rows.Next() {
		var s domain.FocusSessionLog
		var date, startedAt, endedAt, createdAt string
		if err := rows.Scan(
			&s.ID, &date, &s.QuestID, &s.SubQuestID, &s.QuestTitle,
			&startedAt, &endedAt, &s.XPAwarded, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning focus session: %w", err)
		}
		s.Date = domain.DateKey(date)

		var err error
		if s.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if s.EndedAt, err = parseTime(endedAt, "ended_at"); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}
