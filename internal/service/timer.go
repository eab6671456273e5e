package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/media2net-app/byeauto/internal/domain"
)

// TimerSnapshot is the read model a display renders from.
type TimerSnapshot struct {
	State    domain.TimerState
	WorkItem *domain.WorkItem
	Elapsed  time.Duration
}

// WorkTimer tracks active work time on one selected item and drives its
// status through the work-item store. Elapsed time is derived from the
// recorded instants whenever it is read, never accumulated per tick.
type WorkTimer struct {
	mu    sync.Mutex
	items *WorkItemStore
	opts  options

	state      domain.TimerState
	selectedID string

	startedAt    time.Time     // first start of the session
	runningSince time.Time     // start of the open running interval
	accumulated  time.Duration // closed running intervals
	pausedAt     time.Time
	pausedTotal  time.Duration
}

func NewWorkTimer(items *WorkItemStore, opts ...Option) *WorkTimer {
	return &WorkTimer{
		items: items,
		opts:  buildOptions(opts),
		state: domain.TimerIdle,
	}
}

// bindLocked selects the first pending or in-progress item while idle and
// nothing usable is selected. A selection is kept while its item is still
// open.
func (t *WorkTimer) bindLocked() {
	if t.state != domain.TimerIdle {
		return
	}
	if t.selectedID != "" {
		if w, err := t.items.Get(t.selectedID); err == nil && w.Status.Open() {
			return
		}
		t.selectedID = ""
	}
	if open := t.items.Selectable(); len(open) > 0 {
		t.selectedID = open[0].ID
	}
}

func (t *WorkTimer) elapsedLocked(now time.Time) time.Duration {
	if t.state == domain.TimerRunning {
		return t.accumulated + now.Sub(t.runningSince)
	}
	return t.accumulated
}

func (t *WorkTimer) resetLocked() {
	t.state = domain.TimerIdle
	t.selectedID = ""
	t.startedAt = time.Time{}
	t.runningSince = time.Time{}
	t.accumulated = 0
	t.pausedAt = time.Time{}
	t.pausedTotal = 0
}

// Select binds the timer to item id. Only allowed while idle and only for
// pending or in-progress items.
func (t *WorkTimer) Select(ctx context.Context, id string) (err error) {
	defer observe(ctx, t.opts.observer, "timer-select", time.Now(), map[string]any{"id": id}, &err)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != domain.TimerIdle {
		return &domain.TransitionError{From: string(t.state), To: "select", Reason: "stop the timer before switching work items"}
	}
	w, err := t.items.Get(id)
	if err != nil {
		return err
	}
	if !w.Status.Open() {
		return &domain.TransitionError{From: string(w.Status), To: "select", Reason: "work item is already completed, reopen it first"}
	}
	t.selectedID = id
	return nil
}

// Start starts or resumes the timer. Starting a pending item moves it to
// in-progress. Starting while already running does nothing.
func (t *WorkTimer) Start(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer observe(ctx, t.opts.observer, "timer-start", time.Now(), fields, &err)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.opts.now()
	switch t.state {
	case domain.TimerRunning:
		return nil
	case domain.TimerPaused:
		t.pausedTotal += now.Sub(t.pausedAt)
		t.pausedAt = time.Time{}
		t.runningSince = now
		t.state = domain.TimerRunning
		fields["id"] = t.selectedID
		return nil
	}

	t.bindLocked()
	if t.selectedID == "" {
		return domain.ErrNoWorkItemSelected
	}
	fields["id"] = t.selectedID
	item, err := t.items.Get(t.selectedID)
	if err != nil {
		return err
	}
	if item.Status == domain.StatusPending {
		if _, err = t.items.SetStatus(ctx, item.ID, domain.StatusInProgress); err != nil {
			return fmt.Errorf("starting work: %w", err)
		}
	}
	t.startedAt = now
	t.runningSince = now
	t.state = domain.TimerRunning
	return nil
}

// Pause freezes the elapsed time. Pausing while paused does nothing.
func (t *WorkTimer) Pause(ctx context.Context) (err error) {
	defer observe(ctx, t.opts.observer, "timer-pause", time.Now(), nil, &err)

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case domain.TimerPaused:
		return nil
	case domain.TimerIdle:
		return &domain.TransitionError{From: string(domain.TimerIdle), To: string(domain.TimerPaused), Reason: "timer is not running"}
	}
	now := t.opts.now()
	t.accumulated += now.Sub(t.runningSince)
	t.runningSince = time.Time{}
	t.pausedAt = now
	t.state = domain.TimerPaused
	return nil
}

// Stop ends the session: the item is completed with the elapsed time as its
// actual hours, the session is logged and the timer returns to idle with no
// selection. On a persistence failure the timer keeps its state so the stop
// can be retried.
func (t *WorkTimer) Stop(ctx context.Context) (session *domain.WorkSession, err error) {
	fields := map[string]any{}
	defer observe(ctx, t.opts.observer, "timer-stop", time.Now(), fields, &err)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == domain.TimerIdle {
		return nil, &domain.TransitionError{From: string(domain.TimerIdle), To: string(domain.TimerIdle), Reason: "timer is not running"}
	}
	now := t.opts.now()
	paused := t.pausedTotal
	if t.state == domain.TimerPaused {
		paused += now.Sub(t.pausedAt)
	}
	session = &domain.WorkSession{
		ID:         uuid.New().String(),
		WorkItemID: t.selectedID,
		StartedAt:  t.startedAt.UTC(),
		EndedAt:    now.UTC(),
		Elapsed:    t.elapsedLocked(now),
		Paused:     paused,
		CreatedAt:  now.UTC(),
	}
	fields["id"] = session.WorkItemID
	fields["elapsed_ms"] = session.Elapsed.Milliseconds()

	if _, err = t.items.FinishWork(ctx, session.WorkItemID, session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The item was deleted while the timer ran; nothing to record.
			t.resetLocked()
		}
		return nil, err
	}
	t.resetLocked()
	return session, nil
}

// Elapsed returns the active time of the current session.
func (t *WorkTimer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked(t.opts.now())
}

// State returns the current timer state.
func (t *WorkTimer) State() domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns the state, the bound item and the elapsed time. While
// idle it binds the first selectable item if none is selected.
func (t *WorkTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bindLocked()
	snap := TimerSnapshot{State: t.state, Elapsed: t.elapsedLocked(t.opts.now())}
	if t.selectedID != "" {
		if item, err := t.items.Get(t.selectedID); err == nil {
			snap.WorkItem = item
		}
	}
	return snap
}
