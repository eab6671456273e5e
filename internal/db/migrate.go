package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Whole-document JSON records (the work-item board and the weekly
	// schedule). revision increments on every successful write.
	`CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1,
		revision   INTEGER NOT NULL DEFAULT 1 CHECK(revision > 0),
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_sessions (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		ended_at     TEXT NOT NULL,
		elapsed_ms   INTEGER NOT NULL CHECK(elapsed_ms >= 0),
		paused_ms    INTEGER NOT NULL DEFAULT 0 CHECK(paused_ms >= 0),
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_sessions_item ON work_sessions(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_started ON work_sessions(started_at)`,
}
