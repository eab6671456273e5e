package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/repository"
)

// Document keys for the two persisted records.
const (
	WorkItemsKey    = "workItems"
	OpeningHoursKey = "openingHours"
)

// documentVersion is the envelope layout written by this build.
const documentVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// documentStore reads and writes one whole-document record and remembers
// the revision it last saw, so a write from a stale copy fails with
// domain.ErrConflict instead of clobbering the newer record. The stores
// then reread the record and apply their change to it.
type documentStore struct {
	uow      db.UnitOfWork
	key      string
	revision int64
	// saved is false while the in-memory copy is default or seed data that
	// was never written.
	saved bool
}

// load decodes the stored record into v. found is false when nothing is
// stored. A record that cannot be decoded yields a *domain.CorruptDataError;
// its revision is still remembered so the next save replaces it.
func (d *documentStore) load(ctx context.Context, v any) (found bool, err error) {
	var doc *domain.Document
	err = d.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var getErr error
		doc, getErr = repository.NewSQLiteDocumentRepo(tx).Get(ctx, d.key)
		return getErr
	})
	d.saved = false
	if errors.Is(err, domain.ErrNotFound) {
		d.revision = 0
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", d.key, err)
	}
	d.revision = doc.Revision

	var env envelope
	if err := json.Unmarshal(doc.Body, &env); err != nil {
		return true, &domain.CorruptDataError{Key: d.key, Err: err}
	}
	if env.Version != documentVersion {
		return true, &domain.CorruptDataError{Key: d.key, Err: fmt.Errorf("unsupported version %d", env.Version)}
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return true, &domain.CorruptDataError{Key: d.key, Err: err}
	}
	d.saved = true
	return true, nil
}

// save writes v within tx and returns the revision to adopt once the
// transaction commits. See committed.
func (d *documentStore) save(ctx context.Context, tx db.DBTX, v any) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", d.key, err)
	}
	body, err := json.Marshal(envelope{Version: documentVersion, Data: data})
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", d.key, err)
	}
	doc := &domain.Document{Key: d.key, Body: body, Version: documentVersion, Revision: d.revision}
	if err := repository.NewSQLiteDocumentRepo(tx).Save(ctx, doc); err != nil {
		return 0, err
	}
	return doc.Revision, nil
}

// committed adopts rev after the transaction that saved it committed.
func (d *documentStore) committed(rev int64) {
	d.revision = rev
	d.saved = true
}
