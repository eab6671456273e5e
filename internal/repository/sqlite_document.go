package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
)

// SQLiteDocumentRepo implements DocumentRepo on the documents table.
type SQLiteDocumentRepo struct {
	db db.DBTX
}

func NewSQLiteDocumentRepo(conn db.DBTX) *SQLiteDocumentRepo {
	return &SQLiteDocumentRepo{db: conn}
}

func (r *SQLiteDocumentRepo) Get(ctx context.Context, key string) (*domain.Document, error) {
	query := `SELECT key, body, version, revision, updated_at FROM documents WHERE key = ?`
	var doc domain.Document
	var body, updatedAt string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&doc.Key, &body, &doc.Version, &doc.Revision, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %q: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Body = []byte(body)
	if doc.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes doc and advances doc.Revision on success.
func (r *SQLiteDocumentRepo) Save(ctx context.Context, doc *domain.Document) error {
	now := nowUTC()
	var res sql.Result
	var err error
	if doc.Revision == 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO documents (key, body, version, revision, updated_at) VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(key) DO NOTHING`,
			doc.Key, string(doc.Body), doc.Version, now)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE documents SET body = ?, version = ?, revision = revision + 1, updated_at = ?
			WHERE key = ? AND revision = ?`,
			string(doc.Body), doc.Version, now, doc.Key, doc.Revision)
	}
	if err != nil {
		return fmt.Errorf("saving document %q: %w", doc.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving document %q: %w", doc.Key, err)
	}
	if n == 0 {
		return fmt.Errorf("document %q at revision %d: %w", doc.Key, doc.Revision, domain.ErrConflict)
	}
	doc.Revision++
	doc.UpdatedAt, _ = parseTime("updated_at", now)
	return nil
}
