package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"documents", "work_sessions"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_work_sessions_item", "idx_work_sessions_started"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_WALModeOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "byeauto.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_DocumentsRevisionCheck(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO documents (key, body, revision, updated_at) VALUES ('k', '{}', 0, '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "revision must be positive")
}

func TestMigrate_WorkSessionsPausedDefault(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO work_sessions (id, work_item_id, started_at, ended_at, elapsed_ms, created_at)
		VALUES ('s1', 'w1', '2025-01-01T08:00:00Z', '2025-01-01T09:00:00Z', 3600000, '2025-01-01T09:00:00Z')`)
	require.NoError(t, err)

	var paused int64
	require.NoError(t, db.QueryRow(`SELECT paused_ms FROM work_sessions WHERE id = 's1'`).Scan(&paused))
	assert.Zero(t, paused)
}

func TestMigrate_WorkSessionsRejectNegativePause(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO work_sessions (id, work_item_id, started_at, ended_at, elapsed_ms, paused_ms, created_at)
		VALUES ('s1', 'w1', '2025-01-01T08:00:00Z', '2025-01-01T09:00:00Z', 3600000, -1, '2025-01-01T09:00:00Z')`)
	assert.Error(t, err)
}
