package domain

import "time"

// WorkSession is one completed timer run against a work item. Elapsed
// excludes paused time.
type WorkSession struct {
	ID         string
	WorkItemID string
	StartedAt  time.Time
	EndedAt    time.Time
	Elapsed    time.Duration
	Paused     time.Duration
	CreatedAt  time.Time
}

// Hours returns the active worked time in decimal hours.
func (s *WorkSession) Hours() float64 {
	return s.Elapsed.Hours()
}

// HoursSummary is the aggregate hour accounting across the board.
type HoursSummary struct {
	EstimatedHours float64
	ActualHours    float64
	OvertimeHours  float64

	// OpenEstimatedHours sums the estimates of pending and in-progress items.
	OpenEstimatedHours     float64
	RemainingHoursToday    float64
	ProjectedOvertimeHours float64
	ProjectedEndTime       *time.Time

	Counts map[Status]int
}
