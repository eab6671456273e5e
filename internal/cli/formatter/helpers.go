package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/media2net-app/byeauto/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate returns "Today", "Yesterday" or an absolute date relative to now.
func HumanDate(t, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t, now)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t, now)
	}
}

// StatusLabel is the board column title of a status.
func StatusLabel(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return "Pending"
	case domain.StatusInProgress:
		return "In Progress"
	case domain.StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// StatusPill returns a colored status indicator for a work item.
func StatusPill(s domain.Status) string {
	style := lipgloss.NewStyle().Foreground(StatusColor(s))
	switch s {
	case domain.StatusPending:
		return style.Render("○ " + StatusLabel(s))
	case domain.StatusInProgress:
		return style.Render("● " + StatusLabel(s))
	case domain.StatusCompleted:
		return style.Render("✔ " + StatusLabel(s))
	default:
		return StyleDim.Render(string(s))
	}
}

// PriorityBadge returns the priority in its color, e.g. "▲ high".
func PriorityBadge(p domain.Priority) string {
	marker := "•"
	switch p {
	case domain.PriorityHigh:
		marker = "▲"
	case domain.PriorityLow:
		marker = "▽"
	}
	return PriorityStyle(p).Render(marker + " " + string(p))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours renders decimal hours as "2h 30m", rounded to the minute.
func FormatHours(h float64) string {
	if h <= 0 || math.IsNaN(h) {
		return "0m"
	}
	total := int(math.Round(h * 60))
	hours, mins := total/60, total%60
	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatElapsed renders a duration as a stopwatch reading, HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// ClockTime renders the time of day of t, or "--:--" when t is nil.
func ClockTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "--:--"
	}
	return t.In(loc).Format("15:04")
}

// OrDash returns s or a dim dash when s is empty.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return StyleDim.Render("-")
	}
	return s
}
