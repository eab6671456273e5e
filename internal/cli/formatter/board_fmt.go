package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/media2net-app/byeauto/internal/domain"
)

// WorkItemTable renders the board as a table in insertion order.
func WorkItemTable(items []*domain.WorkItem, loc *time.Location) string {
	rows := make([][]string, 0, len(items))
	for _, w := range items {
		rows = append(rows, []string{
			TruncID(w.ID),
			StyleBold.Render(w.Vehicle),
			OrDash(w.Client),
			OrDash(w.WorkType),
			StatusPill(w.Status),
			PriorityBadge(w.Priority),
			OrDash(w.EstimatedTime),
			actualCell(w),
			OrDash(w.AssignedTo),
			ClockTime(w.StartedAt, loc) + "–" + ClockTime(w.CompletedAt, loc),
		})
	}
	return RenderTable(
		[]string{"ID", "VEHICLE", "CLIENT", "WORK", "STATUS", "PRIORITY", "EST", "ACTUAL", "MECHANIC", "TIME"},
		rows,
	)
}

func actualCell(w *domain.WorkItem) string {
	if w.ActualWorkHours == nil {
		return Dim("-")
	}
	s := FormatHours(*w.ActualWorkHours)
	if w.IsOverTime {
		return StyleRed.Render(s + " +" + FormatHours(w.OvertimeHours))
	}
	return StyleGreen.Render(s)
}

// WorkItemDetail renders every field of one work item.
func WorkItemDetail(w *domain.WorkItem, loc *time.Location, now time.Time) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s  %s\n", Dim(fmt.Sprintf("%-9s", label)), value)
	}

	fmt.Fprintf(&b, "%s  %s\n\n", Bold(w.Vehicle), Dim(w.WorkType))
	line("STATUS", StatusPill(w.Status))
	line("ID", StyleDim.Render(w.ID))
	line("CLIENT", OrDash(w.Client))
	line("PRIORITY", PriorityBadge(w.Priority))
	line("MECHANIC", OrDash(w.AssignedTo))
	line("ESTIMATE", fmt.Sprintf("%s %s", OrDash(w.EstimatedTime), Dim("("+FormatHours(w.EstimatedHours)+")")))
	line("STARTED", ClockTime(w.StartedAt, loc))
	line("FINISHED", ClockTime(w.CompletedAt, loc))
	if w.ActualWorkHours != nil {
		line("ACTUAL", actualCell(w))
		line("PROGRESS", RenderHoursBar(*w.ActualWorkHours, w.EstimatedHours, 20))
	}
	if w.Notes != "" {
		line("NOTES", w.Notes)
	}
	line("CREATED", HumanTimestamp(w.CreatedAt, now))
	line("UPDATED", HumanTimestamp(w.UpdatedAt, now))
	return b.String()
}

// HoursSummary renders the aggregate hour accounting with today's projection.
func HoursSummary(sum domain.HoursSummary, loc *time.Location) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-20s", label)), value)
	}

	line("Estimated", FormatHours(sum.EstimatedHours))
	line("Actual", FormatHours(sum.ActualHours))
	overtime := FormatHours(sum.OvertimeHours)
	if sum.OvertimeHours > 0 {
		overtime = StyleRed.Render(overtime)
	}
	line("Overtime", overtime)
	line("Open work", FormatHours(sum.OpenEstimatedHours))
	line("Left before closing", FormatHours(sum.RemainingHoursToday))
	if sum.ProjectedEndTime != nil {
		line("Projected overtime", StyleRed.Render(FormatHours(sum.ProjectedOvertimeHours)))
		line("Projected finish", StyleRed.Render(sum.ProjectedEndTime.In(loc).Format("15:04")))
	}
	counts := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		counts = append(counts, fmt.Sprintf("%s %d", StatusLabel(s), sum.Counts[s]))
	}
	line("Items", strings.Join(counts, Dim(" · ")))
	return b.String()
}

// DayHoursText renders one day's hours, e.g. "08:00-18:00" or "closed".
func DayHoursText(d domain.DayHours) string {
	if !d.Enabled {
		return "closed"
	}
	return d.Open.String() + "-" + d.Close.String()
}

// ScheduleTable renders the weekly opening hours with today highlighted.
func ScheduleTable(oh domain.OpeningHours, today time.Weekday) string {
	rows := make([][]string, 0, len(domain.Weekdays))
	for _, wd := range domain.Weekdays {
		d, _ := oh.Day(wd)
		name := wd.String()
		hours := DayHoursText(d)
		if !d.Enabled {
			hours = Dim(hours)
		}
		if wd == today {
			name = StyleHeader.Render(name + " ◂")
		}
		rows = append(rows, []string{name, hours})
	}
	return RenderTable([]string{"DAY", "HOURS"}, rows)
}

// SessionTable renders logged timer sessions. vehicles maps work item ids
// to a display name; unknown ids fall back to the truncated id.
func SessionTable(sessions []*domain.WorkSession, vehicles map[string]string, loc *time.Location) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		item := TruncID(s.WorkItemID)
		if v, ok := vehicles[s.WorkItemID]; ok {
			item = v
		}
		rows = append(rows, []string{
			s.EndedAt.In(loc).Format("Jan 2"),
			item,
			s.StartedAt.In(loc).Format("15:04") + "–" + s.EndedAt.In(loc).Format("15:04"),
			FormatElapsed(s.Elapsed),
			Dim(FormatElapsed(s.Paused)),
		})
	}
	return RenderTable([]string{"DATE", "WORK ITEM", "TIME", "WORKED", "PAUSED"}, rows)
}

// KanbanCard renders one work item as a dashboard card.
func KanbanCard(w *domain.WorkItem, width int) string {
	lines := []string{
		StyleBold.Render(w.Vehicle),
		OrDash(w.WorkType),
		fmt.Sprintf("%s · %s", OrDash(w.AssignedTo), OrDash(w.EstimatedTime)),
		PriorityBadge(w.Priority),
	}
	if w.IsOverTime {
		lines = append(lines, StyleRed.Render("overtime +"+FormatHours(w.OvertimeHours)))
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusColor(w.Status)).
		PaddingLeft(1).
		Render(strings.Join(lines, "\n"))
}

// Kanban renders the three status columns side by side in total width.
func Kanban(items []*domain.WorkItem, width int) string {
	colWidth := max(20, width/len(domain.Statuses)-2)
	cols := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		var cards []string
		for _, w := range items {
			if w.Status == s {
				cards = append(cards, KanbanCard(w, colWidth-4))
			}
		}
		title := lipgloss.NewStyle().Bold(true).Foreground(StatusColor(s)).
			Render(fmt.Sprintf("%s (%d)", strings.ToUpper(StatusLabel(s)), len(cards)))
		body := Dim("no items")
		if len(cards) > 0 {
			body = lipgloss.JoinVertical(lipgloss.Left, cards...)
		}
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).MarginRight(2).
			Render(title+"\n\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
