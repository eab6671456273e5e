package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/repository"
)

// minIDPrefix is the shortest id prefix Resolve accepts.
const minIDPrefix = 4

// maxWriteAttempts bounds how often a write is reapplied after another
// writer changed the stored record.
const maxWriteAttempts = 3

// ListFilter narrows List. Zero fields match everything.
type ListFilter struct {
	Status     domain.Status
	AssignedTo string
}

func (f ListFilter) matches(w *domain.WorkItem) bool {
	if f.Status != "" && w.Status != f.Status {
		return false
	}
	if f.AssignedTo != "" && !strings.EqualFold(w.AssignedTo, f.AssignedTo) {
		return false
	}
	return true
}

// WorkItemStore is the single source of truth for the work-item board.
// Every mutation persists the whole board before it returns and is then
// announced to subscribers. Items held by the store are never modified in
// place; callers always receive copies.
type WorkItemStore struct {
	mu    sync.Mutex
	items []*domain.WorkItem
	doc   documentStore
	hours *OpeningHoursStore
	opts  options

	subMu   sync.Mutex
	subs    map[int]func(domain.ChangeEvent)
	nextSub int
}

// NewWorkItemStore returns an empty store. hours may be nil, in which case
// AggregateHours reports no projection. Call Load to read the persisted
// board or fall back to the seed items.
func NewWorkItemStore(uow db.UnitOfWork, hours *OpeningHoursStore, opts ...Option) *WorkItemStore {
	return &WorkItemStore{
		doc:   documentStore{uow: uow, key: WorkItemsKey},
		hours: hours,
		opts:  buildOptions(opts),
		subs:  make(map[int]func(domain.ChangeEvent)),
	}
}

// Load replaces the board with the persisted one. When nothing is stored
// the seed items are used. An unreadable record also falls back to the seed
// items and returns a *domain.CorruptDataError.
func (s *WorkItemStore) Load(ctx context.Context) (err error) {
	defer observe(ctx, s.opts.observer, "load-work-items", time.Now(), nil, &err)

	err = func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		var loaded []*domain.WorkItem
		found, err := s.doc.load(ctx, &loaded)
		if err == nil && found {
			if err = validateLoaded(loaded); err != nil {
				s.doc.saved = false
			}
		}

		var corrupt *domain.CorruptDataError
		switch {
		case errors.As(err, &corrupt):
			s.opts.logger.WarnContext(ctx, "stored work items unreadable, using seed board", "key", corrupt.Key, "error", corrupt.Err)
		case err != nil:
			return err
		case found:
			s.items = loaded
			return nil
		}

		seeded, seedErr := s.buildSeed()
		if seedErr != nil {
			return seedErr
		}
		s.items = seeded
		return err
	}()

	var corrupt *domain.CorruptDataError
	if err == nil || errors.As(err, &corrupt) {
		s.notify(domain.ChangeEvent{Kind: domain.ChangeReloaded})
	}
	return err
}

func validateLoaded(items []*domain.WorkItem) error {
	seen := make(map[string]bool, len(items))
	for i, w := range items {
		if w == nil || w.ID == "" {
			return &domain.CorruptDataError{Key: WorkItemsKey, Err: fmt.Errorf("item %d has no id", i)}
		}
		if seen[w.ID] {
			return &domain.CorruptDataError{Key: WorkItemsKey, Err: fmt.Errorf("duplicate id %s", w.ID)}
		}
		seen[w.ID] = true
		if !w.Status.Valid() {
			return &domain.CorruptDataError{Key: WorkItemsKey, Err: fmt.Errorf("item %s has unknown status %q", w.ID, w.Status)}
		}
	}
	return nil
}

func (s *WorkItemStore) buildSeed() ([]*domain.WorkItem, error) {
	now := s.opts.now().UTC()
	items := make([]*domain.WorkItem, 0, len(s.opts.seed))
	for _, n := range s.opts.seed {
		w, err := s.newItem(n, now)
		if err != nil {
			return nil, fmt.Errorf("seed item %q: %w", n.Vehicle, err)
		}
		items = append(items, w)
	}
	return items, nil
}

// Flush writes the board if it has not been stored yet, which is the case
// for the seed board after a first run or a corrupt record. If another
// process stored a board in the meantime, that board is adopted instead.
func (s *WorkItemStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.saved {
		return nil
	}
	err := s.saveLocked(ctx, s.items, nil)
	if errors.Is(err, domain.ErrConflict) {
		return s.refreshLocked(ctx)
	}
	return err
}

// persistLocked builds the next board from the current one with apply and
// saves it. When another writer changed the stored board since it was last
// read, the store rereads it and applies the change again, up to
// maxWriteAttempts times. apply must not modify its argument.
func (s *WorkItemStore) persistLocked(ctx context.Context,
	apply func(base []*domain.WorkItem) ([]*domain.WorkItem, error),
	extra func(ctx context.Context, tx db.DBTX) error,
) error {
	for attempt := 1; ; attempt++ {
		next, err := apply(s.items)
		if err != nil {
			return err
		}
		err = s.saveLocked(ctx, next, extra)
		if !errors.Is(err, domain.ErrConflict) || attempt == maxWriteAttempts {
			return err
		}
		s.opts.logger.InfoContext(ctx, "work items changed by another writer, retrying", "attempt", attempt)
		if err := s.refreshLocked(ctx); err != nil {
			return err
		}
	}
}

// saveLocked saves next, plus any extra writes, in one transaction and
// adopts it as the board only once that commits.
func (s *WorkItemStore) saveLocked(ctx context.Context, next []*domain.WorkItem, extra func(ctx context.Context, tx db.DBTX) error) error {
	if next == nil {
		next = []*domain.WorkItem{}
	}
	var rev int64
	err := s.doc.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if rev, err = s.doc.save(ctx, tx, next); err != nil {
			return err
		}
		if extra != nil {
			return extra(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving work items: %w", err)
	}
	s.doc.committed(rev)
	s.items = next
	return nil
}

// refreshLocked replaces the board with the stored one and adopts its
// revision.
func (s *WorkItemStore) refreshLocked(ctx context.Context) error {
	var fresh []*domain.WorkItem
	found, err := s.doc.load(ctx, &fresh)
	if err == nil && found {
		err = validateLoaded(fresh)
	}
	if err != nil {
		s.doc.saved = false
		return fmt.Errorf("rereading work items: %w", err)
	}
	if fresh == nil {
		fresh = []*domain.WorkItem{}
	}
	s.items = fresh
	return nil
}

// Subscribe registers fn to be called after every successful mutation and
// reload. fn runs synchronously on the mutating goroutine after the store
// lock is released; it must not block. The returned func unsubscribes.
func (s *WorkItemStore) Subscribe(fn func(domain.ChangeEvent)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *WorkItemStore) notify(ev domain.ChangeEvent) {
	s.subMu.Lock()
	fns := make([]func(domain.ChangeEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *WorkItemStore) checkAssignee(name string) error {
	if name == "" || len(s.opts.roster) == 0 {
		return nil
	}
	for _, r := range s.opts.roster {
		if strings.EqualFold(r, name) {
			return nil
		}
	}
	return &domain.ValidationError{Field: "assignedTo", Message: fmt.Sprintf("%q is not on the roster (%s)", name, strings.Join(s.opts.roster, ", "))}
}

func (s *WorkItemStore) newItem(n domain.NewWorkItem, now time.Time) (*domain.WorkItem, error) {
	n.Normalize()
	hours, err := n.Validate()
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(n.AssignedTo); err != nil {
		return nil, err
	}
	w := &domain.WorkItem{
		ID:             uuid.New().String(),
		Vehicle:        n.Vehicle,
		Client:         n.Client,
		WorkType:       n.WorkType,
		Status:         domain.StatusPending,
		Priority:       n.Priority,
		Notes:          n.Notes,
		EstimatedTime:  n.EstimatedTime,
		EstimatedHours: hours,
		AssignedTo:     n.AssignedTo,
		CreatedAt:      now,
	}
	if err := w.TransitionTo(n.Status, now); err != nil {
		return nil, err
	}
	return w, nil
}

// Add validates fields and appends a new item with a fresh id.
func (s *WorkItemStore) Add(ctx context.Context, fields domain.NewWorkItem) (item *domain.WorkItem, err error) {
	fieldsLog := map[string]any{"vehicle": fields.Vehicle}
	defer observe(ctx, s.opts.observer, "add-work-item", time.Now(), fieldsLog, &err)

	item, err = func() (*domain.WorkItem, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		w, err := s.newItem(fields, s.opts.now().UTC())
		if err != nil {
			return nil, err
		}
		err = s.persistLocked(ctx, func(base []*domain.WorkItem) ([]*domain.WorkItem, error) {
			return append(slices.Clone(base), w), nil
		}, nil)
		if err != nil {
			return nil, err
		}
		return w.Clone(), nil
	}()
	if err != nil {
		return nil, err
	}
	fieldsLog["id"] = item.ID
	s.notify(domain.ChangeEvent{Kind: domain.ChangeAdded, ItemID: item.ID})
	return item, nil
}

// modify runs fn on a copy of item id and persists the result.
func (s *WorkItemStore) modify(ctx context.Context, id string, kind domain.ChangeKind,
	fn func(w *domain.WorkItem, now time.Time) error,
	extra func(ctx context.Context, tx db.DBTX) error,
) (*domain.WorkItem, error) {
	item, err := func() (*domain.WorkItem, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		var w *domain.WorkItem
		err := s.persistLocked(ctx, func(base []*domain.WorkItem) ([]*domain.WorkItem, error) {
			idx := indexOf(base, id)
			if idx < 0 {
				return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
			}
			w = base[idx].Clone()
			if err := fn(w, s.opts.now().UTC()); err != nil {
				return nil, err
			}
			next := slices.Clone(base)
			next[idx] = w
			return next, nil
		}, extra)
		if err != nil {
			return nil, err
		}
		return w.Clone(), nil
	}()
	if err != nil {
		return nil, err
	}
	s.notify(domain.ChangeEvent{Kind: kind, ItemID: id})
	return item, nil
}

// Update merges the non-nil patch fields into item id.
func (s *WorkItemStore) Update(ctx context.Context, id string, patch domain.WorkItemPatch) (item *domain.WorkItem, err error) {
	defer observe(ctx, s.opts.observer, "update-work-item", time.Now(), map[string]any{"id": id}, &err)

	if patch.AssignedTo != nil {
		if err = s.checkAssignee(strings.TrimSpace(*patch.AssignedTo)); err != nil {
			return nil, err
		}
	}
	kind := domain.ChangeUpdated
	if patch.Status != nil {
		kind = domain.ChangeStatus
	}
	return s.modify(ctx, id, kind, func(w *domain.WorkItem, now time.Time) error {
		return patch.Apply(w, now)
	}, nil)
}

// SetStatus moves item id to status, stamping StartedAt on the first move
// into in-progress and CompletedAt on the first move into completed.
func (s *WorkItemStore) SetStatus(ctx context.Context, id string, status domain.Status) (item *domain.WorkItem, err error) {
	defer observe(ctx, s.opts.observer, "set-status", time.Now(), map[string]any{"id": id, "status": string(status)}, &err)

	return s.modify(ctx, id, domain.ChangeStatus, func(w *domain.WorkItem, now time.Time) error {
		return w.TransitionTo(status, now)
	}, nil)
}

// RecordActualHours stores the worked hours of item id and derives its overtime.
func (s *WorkItemStore) RecordActualHours(ctx context.Context, id string, hours float64) (item *domain.WorkItem, err error) {
	defer observe(ctx, s.opts.observer, "record-actual-hours", time.Now(), map[string]any{"id": id, "hours": hours}, &err)

	return s.modify(ctx, id, domain.ChangeUpdated, func(w *domain.WorkItem, now time.Time) error {
		return w.RecordActualHours(hours, now)
	}, nil)
}

// FinishWork completes item id with the hours of session and appends
// session to the session log. Both writes commit together.
func (s *WorkItemStore) FinishWork(ctx context.Context, id string, session *domain.WorkSession) (item *domain.WorkItem, err error) {
	defer observe(ctx, s.opts.observer, "finish-work", time.Now(), map[string]any{"id": id, "elapsed_ms": session.Elapsed.Milliseconds()}, &err)

	return s.modify(ctx, id, domain.ChangeStatus, func(w *domain.WorkItem, now time.Time) error {
		if err := w.TransitionTo(domain.StatusCompleted, now); err != nil {
			return err
		}
		return w.RecordActualHours(session.Hours(), now)
	}, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSessionRepo(tx).Create(ctx, session)
	})
}

// Delete removes item id permanently.
func (s *WorkItemStore) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.opts.observer, "delete-work-item", time.Now(), map[string]any{"id": id}, &err)

	err = func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		return s.persistLocked(ctx, func(base []*domain.WorkItem) ([]*domain.WorkItem, error) {
			idx := indexOf(base, id)
			if idx < 0 {
				return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
			}
			return slices.Delete(slices.Clone(base), idx, idx+1), nil
		}, nil)
	}()
	if err != nil {
		return err
	}
	s.notify(domain.ChangeEvent{Kind: domain.ChangeDeleted, ItemID: id})
	return nil
}

func (s *WorkItemStore) indexLocked(id string) int {
	return indexOf(s.items, id)
}

func indexOf(items []*domain.WorkItem, id string) int {
	return slices.IndexFunc(items, func(w *domain.WorkItem) bool { return w.ID == id })
}

// Get returns a copy of item id.
func (s *WorkItemStore) Get(id string) (*domain.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return nil, fmt.Errorf("work item %s: %w", id, domain.ErrNotFound)
	}
	return s.items[idx].Clone(), nil
}

// Resolve maps a full id or a unique prefix of at least four characters to
// the full id.
func (s *WorkItemStore) Resolve(ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(ref) >= 0 {
		return ref, nil
	}
	if len(ref) < minIDPrefix {
		return "", &domain.ValidationError{Field: "id", Message: fmt.Sprintf("%q is too short, use at least %d characters", ref, minIDPrefix)}
	}
	var match string
	for _, w := range s.items {
		if strings.HasPrefix(w.ID, ref) {
			if match != "" {
				return "", &domain.ValidationError{Field: "id", Message: fmt.Sprintf("%q matches more than one work item", ref)}
			}
			match = w.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("work item %s: %w", ref, domain.ErrNotFound)
	}
	return match, nil
}

// List returns copies of the items matching filter in insertion order.
func (s *WorkItemStore) List(filter ListFilter) []*domain.WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.WorkItem, 0, len(s.items))
	for _, w := range s.items {
		if filter.matches(w) {
			out = append(out, w.Clone())
		}
	}
	return out
}

// Selectable returns the pending and in-progress items in insertion order.
func (s *WorkItemStore) Selectable() []*domain.WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.WorkItem
	for _, w := range s.items {
		if w.Status.Open() {
			out = append(out, w.Clone())
		}
	}
	return out
}

// AggregateHours sums estimated, actual and overtime hours across the board
// and projects the open work against the time left before today's close.
// Items without recorded actual hours contribute zero actual and overtime.
func (s *WorkItemStore) AggregateHours() domain.HoursSummary {
	sum := domain.HoursSummary{Counts: make(map[domain.Status]int, len(domain.Statuses))}

	s.mu.Lock()
	for _, w := range s.items {
		sum.EstimatedHours += w.EstimatedHours
		sum.ActualHours += w.ActualHours()
		sum.OvertimeHours += w.OvertimeHours
		sum.Counts[w.Status]++
		if w.Status.Open() {
			sum.OpenEstimatedHours += w.EstimatedHours
		}
	}
	s.mu.Unlock()

	if s.hours == nil || !s.hours.CurrentDayHours().Enabled {
		return sum
	}
	sum.RemainingHoursToday = s.hours.RemainingHoursToday()
	if over := sum.OpenEstimatedHours - sum.RemainingHoursToday; over > 0 {
		sum.ProjectedOvertimeHours = over
		if end, ok := s.hours.WorkEndTime(over); ok {
			sum.ProjectedEndTime = &end
		}
	}
	return sum
}
