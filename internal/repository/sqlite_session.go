package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
)

const sessionColumns = `id, work_item_id, started_at, ended_at, elapsed_ms, paused_ms, created_at`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	query := `INSERT INTO work_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.WorkItemID,
		formatTime(s.StartedAt),
		formatTime(s.EndedAt),
		s.Elapsed.Milliseconds(),
		s.Paused.Milliseconds(),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = ?`
	s, err := r.scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work session: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSessionRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE work_item_id = ? ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, workItemID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by work item: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListSince returns sessions that ended at or after since, newest first.
func (r *SQLiteSessionRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE ended_at >= ? ORDER BY ended_at DESC`
	rows, err := r.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing recent sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSessionRepo) scanSession(row rowScanner) (*domain.WorkSession, error) {
	var s domain.WorkSession
	var startedAt, endedAt, createdAt string
	var elapsedMs, pausedMs int64

	if err := row.Scan(&s.ID, &s.WorkItemID, &startedAt, &endedAt, &elapsedMs, &pausedMs, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work session: %w", err)
	}

	var err error
	if s.StartedAt, err = parseTime("started_at", startedAt); err != nil {
		return nil, err
	}
	if s.EndedAt, err = parseTime("ended_at", endedAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	s.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	s.Paused = time.Duration(pausedMs) * time.Millisecond
	return &s, nil
}

func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}
