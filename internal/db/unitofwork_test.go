package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertDoc = `INSERT INTO documents (key, body, updated_at) VALUES (?, ?, '2025-06-16T10:00:00Z')`

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func documentBody(t *testing.T, uow *db.SQLiteUnitOfWork, key string) (string, bool) {
	t.Helper()
	var body string
	var found bool
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body); err != nil {
			return nil
		}
		found = true
		return nil
	}))
	return body, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertDoc, "board", `{"items":[]}`)
		return err
	})
	require.NoError(t, err)

	body, found := documentBody(t, uow, "board")
	assert.True(t, found)
	assert.Equal(t, `{"items":[]}`, body)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	boom := errors.New("write rejected")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertDoc, "board", `{}`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, found := documentBody(t, uow, "board")
	assert.False(t, found, "insert should be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertDoc, "hours", `{}`)
			panic("boom")
		})
	})

	_, found := documentBody(t, uow, "hours")
	assert.False(t, found)
}
