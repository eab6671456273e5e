package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
)

// OpeningHoursStore owns the weekly business schedule and answers
// time-of-day questions against the injected clock.
type OpeningHoursStore struct {
	mu       sync.Mutex
	schedule domain.OpeningHours
	doc      documentStore
	opts     options
}

// NewOpeningHoursStore returns a store holding the default schedule. Call
// Load to read the persisted one.
func NewOpeningHoursStore(uow db.UnitOfWork, opts ...Option) *OpeningHoursStore {
	return &OpeningHoursStore{
		schedule: domain.DefaultOpeningHours(),
		doc:      documentStore{uow: uow, key: OpeningHoursKey},
		opts:     buildOptions(opts),
	}
}

// Load replaces the in-memory schedule with the persisted one. When nothing
// is stored the default schedule is kept. An unreadable or invalid record
// restores the default schedule and returns a *domain.CorruptDataError.
func (s *OpeningHoursStore) Load(ctx context.Context) (err error) {
	defer observe(ctx, s.opts.observer, "load-opening-hours", time.Now(), nil, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded domain.OpeningHours
	found, err := s.doc.load(ctx, &loaded)
	if err == nil && found {
		if verr := loaded.Validate(); verr != nil {
			err = &domain.CorruptDataError{Key: OpeningHoursKey, Err: verr}
			s.doc.saved = false
		}
	}

	var corrupt *domain.CorruptDataError
	switch {
	case errors.As(err, &corrupt):
		s.opts.logger.WarnContext(ctx, "stored opening hours unreadable, using defaults", "key", corrupt.Key, "error", corrupt.Err)
		s.schedule = domain.DefaultOpeningHours()
		return err
	case err != nil:
		return err
	case !found:
		s.schedule = domain.DefaultOpeningHours()
		return nil
	}
	s.schedule = loaded
	return nil
}

// Flush writes the schedule if it has not been stored yet, which is the
// case for the default schedule after a first run or a corrupt record. If
// another process stored a schedule in the meantime, that one is adopted.
func (s *OpeningHoursStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.saved {
		return nil
	}
	err := s.saveLocked(ctx, s.schedule)
	if errors.Is(err, domain.ErrConflict) {
		return s.refreshLocked(ctx)
	}
	return err
}

// SetSchedule validates and replaces the whole weekly schedule.
func (s *OpeningHoursStore) SetSchedule(ctx context.Context, schedule domain.OpeningHours) (err error) {
	defer observe(ctx, s.opts.observer, "set-schedule", time.Now(), nil, &err)

	if err = schedule.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, func(domain.OpeningHours) domain.OpeningHours {
		return schedule.Clone()
	})
}

// SetDay validates and replaces the hours of a single weekday. The other
// days keep whatever is stored, even when another process changed them.
func (s *OpeningHoursStore) SetDay(ctx context.Context, wd time.Weekday, hours domain.DayHours) (err error) {
	defer observe(ctx, s.opts.observer, "set-day", time.Now(), map[string]any{"day": domain.DayKey(wd)}, &err)

	if err = hours.Validate(); err != nil {
		return fmt.Errorf("%s: %w", domain.DayKey(wd), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, func(base domain.OpeningHours) domain.OpeningHours {
		next := base.Clone()
		next[domain.DayKey(wd)] = hours
		return next
	})
}

// persistLocked saves the schedule built by apply from the current one and
// reapplies it to a fresh read when another writer got there first.
func (s *OpeningHoursStore) persistLocked(ctx context.Context, apply func(base domain.OpeningHours) domain.OpeningHours) error {
	for attempt := 1; ; attempt++ {
		err := s.saveLocked(ctx, apply(s.schedule))
		if !errors.Is(err, domain.ErrConflict) || attempt == maxWriteAttempts {
			return err
		}
		s.opts.logger.InfoContext(ctx, "opening hours changed by another writer, retrying", "attempt", attempt)
		if err := s.refreshLocked(ctx); err != nil {
			return err
		}
	}
}

func (s *OpeningHoursStore) saveLocked(ctx context.Context, next domain.OpeningHours) error {
	var rev int64
	err := s.doc.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var saveErr error
		rev, saveErr = s.doc.save(ctx, tx, next)
		return saveErr
	})
	if err != nil {
		return fmt.Errorf("saving opening hours: %w", err)
	}
	s.doc.committed(rev)
	s.schedule = next
	return nil
}

// refreshLocked replaces the schedule with the stored one and adopts its
// revision.
func (s *OpeningHoursStore) refreshLocked(ctx context.Context) error {
	var fresh domain.OpeningHours
	found, err := s.doc.load(ctx, &fresh)
	if err == nil && found {
		err = fresh.Validate()
	}
	if err != nil {
		s.doc.saved = false
		return fmt.Errorf("rereading opening hours: %w", err)
	}
	if !found {
		fresh = domain.DefaultOpeningHours()
	}
	s.schedule = fresh
	return nil
}

// Schedule returns a copy of the weekly schedule.
func (s *OpeningHoursStore) Schedule() domain.OpeningHours {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Clone()
}

// CurrentDayHours returns today's hours in the workshop's time zone.
func (s *OpeningHoursStore) CurrentDayHours() domain.DayHours {
	return s.dayHours(s.opts.localNow())
}

func (s *OpeningHoursStore) dayHours(now time.Time) domain.DayHours {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := s.schedule.Day(now.Weekday())
	return d
}

// IsCurrentlyOpen reports whether now falls in [open, close) on an enabled day.
func (s *OpeningHoursStore) IsCurrentlyOpen() bool {
	now := s.opts.localNow()
	d := s.dayHours(now)
	if !d.Enabled {
		return false
	}
	tod := domain.TimeOfDayOf(now)
	return tod >= d.Open && tod < d.Close
}

// RemainingHoursToday is the time until today's close in hours, or zero when
// today is closed or already past closing.
func (s *OpeningHoursStore) RemainingHoursToday() float64 {
	now := s.opts.localNow()
	d := s.dayHours(now)
	if !d.Enabled {
		return 0
	}
	remaining := d.Close.On(now).Sub(now).Hours()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WorkEndTime projects a finish time of today's close plus additionalHours.
// ok is false when today is closed.
func (s *OpeningHoursStore) WorkEndTime(additionalHours float64) (end time.Time, ok bool) {
	now := s.opts.localNow()
	d := s.dayHours(now)
	if !d.Enabled {
		return time.Time{}, false
	}
	extra := time.Duration(additionalHours * float64(time.Hour))
	return d.Close.On(now).Add(extra), true
}
