package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are re-run on every open,
// so each must be idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS focus_sessions (
		id           TEXT PRIMARY KEY,
		date         TEXT NOT NULL,
		quest_id     TEXT NOT NULL,
		sub_quest_id TEXT NOT NULL,
		quest_title  TEXT NOT NULL DEFAULT '',
		started_at   TEXT NOT NULL,
		ended_at     TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,

	`ALTER TABLE focus_sessions ADD COLUMN xp_awarded INTEGER NOT NULL DEFAULT 0`,

	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_date ON focus_sessions(date)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_ended ON focus_sessions(ended_at)`,
}
