package domain

import (
	"math"
	"strings"
	"time"
)

// WorkItem is one unit of service work on a vehicle. The JSON form is the
// persisted document layout.
type WorkItem struct {
	ID       string   `json:"id"`
	Vehicle  string   `json:"vehicle"`
	Client   string   `json:"client"`
	WorkType string   `json:"workType"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Notes    string   `json:"notes,omitempty"`

	// EstimatedTime is the label as entered; EstimatedHours is its parsed value.
	EstimatedTime  string  `json:"estimatedTime"`
	EstimatedHours float64 `json:"estimatedHours"`

	StartedAt   *time.Time `json:"startTime,omitempty"`
	CompletedAt *time.Time `json:"endTime,omitempty"`

	ActualWorkHours *float64 `json:"actualWorkHours,omitempty"`
	IsOverTime      bool     `json:"isOverTime"`
	OvertimeHours   float64  `json:"overtimeHours"`

	AssignedTo string `json:"assignedTo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransitionTo moves the item to status to. Every transition between known
// statuses is allowed, including backwards moves such as completed to
// in-progress for rework. Entering in-progress stamps StartedAt and entering
// completed stamps CompletedAt, each only when not already set.
func (w *WorkItem) TransitionTo(to Status, now time.Time) error {
	if !to.Valid() {
		return &TransitionError{From: string(w.Status), To: string(to), Reason: "unknown status"}
	}
	switch to {
	case StatusInProgress:
		if w.StartedAt == nil {
			t := now
			w.StartedAt = &t
		}
	case StatusCompleted:
		if w.CompletedAt == nil {
			t := now
			w.CompletedAt = &t
		}
	}
	w.Status = to
	w.UpdatedAt = now
	return nil
}

// RecordActualHours stores the worked duration and derives the overtime
// against the item's own estimate.
func (w *WorkItem) RecordActualHours(hours float64, now time.Time) error {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return invalid("actualWorkHours", "%v must be a non-negative number of hours", hours)
	}
	h := hours
	w.ActualWorkHours = &h
	w.OvertimeHours = 0
	if w.EstimatedHours > 0 && hours > w.EstimatedHours {
		w.OvertimeHours = hours - w.EstimatedHours
	}
	w.IsOverTime = w.OvertimeHours > 0
	w.UpdatedAt = now
	return nil
}

// ActualHours returns the recorded worked hours, or zero when none were recorded.
func (w *WorkItem) ActualHours() float64 {
	if w.ActualWorkHours == nil {
		return 0
	}
	return *w.ActualWorkHours
}

// Clone returns a deep copy so callers cannot mutate store-owned records.
func (w *WorkItem) Clone() *WorkItem {
	c := *w
	if w.StartedAt != nil {
		t := *w.StartedAt
		c.StartedAt = &t
	}
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	if w.ActualWorkHours != nil {
		h := *w.ActualWorkHours
		c.ActualWorkHours = &h
	}
	return &c
}

// NewWorkItem holds the caller-supplied fields for creating a work item.
type NewWorkItem struct {
	Vehicle       string
	Client        string
	WorkType      string
	Priority      Priority
	EstimatedTime string
	AssignedTo    string
	Status        Status
	Notes         string
}

// Normalize trims text fields and fills the board defaults.
func (n *NewWorkItem) Normalize() {
	n.Vehicle = strings.TrimSpace(n.Vehicle)
	n.Client = strings.TrimSpace(n.Client)
	n.WorkType = strings.TrimSpace(n.WorkType)
	n.EstimatedTime = strings.TrimSpace(n.EstimatedTime)
	n.AssignedTo = strings.TrimSpace(n.AssignedTo)
	if n.Status == "" {
		n.Status = StatusPending
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
}

// Validate checks the enumerated fields and the estimate label and returns
// the parsed estimate in hours.
func (n *NewWorkItem) Validate() (float64, error) {
	if n.Vehicle == "" {
		return 0, invalid("vehicle", "is required")
	}
	if !n.Status.Valid() {
		return 0, invalid("status", "%q is not one of pending, in-progress, completed", n.Status)
	}
	if !n.Priority.Valid() {
		return 0, invalid("priority", "%q is not one of high, medium, low", n.Priority)
	}
	return ParseEstimate(n.EstimatedTime)
}

// WorkItemPatch carries a partial update; nil fields are left untouched.
type WorkItemPatch struct {
	Vehicle       *string
	Client        *string
	WorkType      *string
	Priority      *Priority
	EstimatedTime *string
	AssignedTo    *string
	Notes         *string
	Status        *Status
}

// Empty reports whether the patch changes nothing.
func (p WorkItemPatch) Empty() bool {
	return p.Vehicle == nil && p.Client == nil && p.WorkType == nil && p.Priority == nil &&
		p.EstimatedTime == nil && p.AssignedTo == nil && p.Notes == nil && p.Status == nil
}

// Apply merges the patch into w. Status changes go through TransitionTo so
// the timestamp stamping rules hold for edits as well.
func (p WorkItemPatch) Apply(w *WorkItem, now time.Time) error {
	if p.Priority != nil && !p.Priority.Valid() {
		return invalid("priority", "%q is not one of high, medium, low", *p.Priority)
	}
	if p.Vehicle != nil && strings.TrimSpace(*p.Vehicle) == "" {
		return invalid("vehicle", "is required")
	}
	var estimate float64
	if p.EstimatedTime != nil {
		h, err := ParseEstimate(*p.EstimatedTime)
		if err != nil {
			return err
		}
		estimate = h
	}
	if p.Status != nil && !p.Status.Valid() {
		return &TransitionError{From: string(w.Status), To: string(*p.Status), Reason: "unknown status"}
	}

	if p.Vehicle != nil {
		w.Vehicle = strings.TrimSpace(*p.Vehicle)
	}
	if p.Client != nil {
		w.Client = strings.TrimSpace(*p.Client)
	}
	if p.WorkType != nil {
		w.WorkType = strings.TrimSpace(*p.WorkType)
	}
	if p.Priority != nil {
		w.Priority = *p.Priority
	}
	if p.EstimatedTime != nil {
		w.EstimatedTime = strings.TrimSpace(*p.EstimatedTime)
		w.EstimatedHours = estimate
		if w.ActualWorkHours != nil {
			if err := w.RecordActualHours(*w.ActualWorkHours, now); err != nil {
				return err
			}
		}
	}
	if p.AssignedTo != nil {
		w.AssignedTo = strings.TrimSpace(*p.AssignedTo)
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Status != nil {
		if err := w.TransitionTo(*p.Status, now); err != nil {
			return err
		}
	}
	w.UpdatedAt = now
	return nil
}
