package repository

import (
	"context"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
)

// DocumentRepo stores whole JSON documents by key. Save is compare-and-swap
// on doc.Revision: zero means "must not exist yet", otherwise the stored
// revision must match. A mismatch returns domain.ErrConflict.
type DocumentRepo interface {
	Get(ctx context.Context, key string) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// SessionRepo is the append-only log of completed timer sessions.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.WorkSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkSession, error)
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.WorkSession, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.WorkSession, error)
}
