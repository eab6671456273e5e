package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/media2net-app/byeauto/internal/domain"
)

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithStatus(s domain.Status) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithPriority(p domain.Priority) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Priority = p
	}
}

// WithEstimate sets both the label and the parsed hours.
func WithEstimate(label string, hours float64) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.EstimatedTime = label
		w.EstimatedHours = hours
	}
}

func WithActualHours(h float64) WorkItemOption {
	return func(w *domain.WorkItem) {
		_ = w.RecordActualHours(h, w.UpdatedAt)
	}
}

func WithAssignee(name string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.AssignedTo = name
	}
}

func NewTestWorkItem(vehicle string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC()
	w := &domain.WorkItem{
		ID:             uuid.New().String(),
		Vehicle:        vehicle,
		Client:         "Test Client",
		WorkType:       "Inspection",
		Status:         domain.StatusPending,
		Priority:       domain.PriorityMedium,
		EstimatedTime:  "1h",
		EstimatedHours: 1,
		AssignedTo:     "Marius",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session options
type SessionOption func(*domain.WorkSession)

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		d := s.EndedAt.Sub(s.StartedAt)
		s.StartedAt = t
		s.EndedAt = t.Add(d)
	}
}

func WithPaused(d time.Duration) SessionOption {
	return func(s *domain.WorkSession) {
		s.Paused = d
		s.EndedAt = s.StartedAt.Add(s.Elapsed + d)
	}
}

// NewTestSession returns a session of the given active length that ended now.
func NewTestSession(workItemID string, elapsed time.Duration, opts ...SessionOption) *domain.WorkSession {
	now := time.Now().UTC()
	s := &domain.WorkSession{
		ID:         uuid.New().String(),
		WorkItemID: workItemID,
		StartedAt:  now.Add(-elapsed),
		EndedAt:    now,
		Elapsed:    elapsed,
		CreatedAt:  now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
