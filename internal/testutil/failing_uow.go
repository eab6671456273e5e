package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/media2net-app/byeauto/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call within a
// transaction, so tests can check that a multi-write save such as finishing
// a timer session rolls back as a whole.
//
// ExecContext calls are counted from 1 across the life of the UoW. Reads pass
// through untouched.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	count atomic.Int32
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Execs reports how many ExecContext calls have been seen so far.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.count.Load())
}

type failOnNthExec struct {
	db.DBTX
	uow *FailOnNthExecUoW
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.uow.count.Add(1)
	if n == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// ContendedUoW simulates another process that writes every document just
// before each transaction begins, so no compare-and-swap write can win.
type ContendedUoW struct {
	db.UnitOfWork
	DB *sql.DB
}

func (u *ContendedUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	if _, err := u.DB.ExecContext(ctx, `UPDATE documents SET revision = revision + 1`); err != nil {
		return fmt.Errorf("contending write: %w", err)
	}
	return u.UnitOfWork.WithinTx(ctx, fn)
}
