package formatter

import (
	"testing"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHumanDate(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", HumanDate(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.AddDate(0, 0, -3), "Jun 13, 2025"},
		{"future", now.Add(time.Hour), "Today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.input, now))
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0m"},
		{-1, "0m"},
		{0.025, "2m"},
		{0.5, "30m"},
		{1, "1h"},
		{2.5, "2h 30m"},
		{1.999, "2h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.hours), "hours=%v", tt.hours)
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatElapsed(0))
	assert.Equal(t, "00:01:30", FormatElapsed(90*time.Second))
	assert.Equal(t, "02:05:09", FormatElapsed(2*time.Hour+5*time.Minute+9*time.Second+900*time.Millisecond))
	assert.Equal(t, "00:00:00", FormatElapsed(-time.Second))
}

func TestClockTime(t *testing.T) {
	ts := time.Date(2025, 6, 16, 11, 5, 0, 0, time.UTC)
	bucharest := time.FixedZone("EEST", 3*60*60)

	assert.Equal(t, "--:--", ClockTime(nil, time.UTC))
	assert.Equal(t, "11:05", ClockTime(&ts, time.UTC))
	assert.Equal(t, "14:05", ClockTime(&ts, bucharest))
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.StatusPending), "Pending")
	assert.Contains(t, StatusPill(domain.StatusInProgress), "In Progress")
	assert.Contains(t, StatusPill(domain.StatusCompleted), "Completed")
	assert.Contains(t, StatusPill(domain.Status("weird")), "weird")
}

func TestPriorityBadge(t *testing.T) {
	assert.Contains(t, PriorityBadge(domain.PriorityHigh), "▲ high")
	assert.Contains(t, PriorityBadge(domain.PriorityMedium), "• medium")
	assert.Contains(t, PriorityBadge(domain.PriorityLow), "▽ low")
}

func TestTimerColorDependsOnlyOnState(t *testing.T) {
	seen := map[string]domain.TimerState{}
	for _, s := range []domain.TimerState{domain.TimerIdle, domain.TimerRunning, domain.TimerPaused} {
		c := string(TimerColor(s))
		_, dup := seen[c]
		assert.False(t, dup, "each state has its own color")
		seen[c] = s
		assert.Equal(t, TimerColor(s), TimerColor(s))
	}
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "8")
	assert.Contains(t, TruncID("abc"), "abc")
}
