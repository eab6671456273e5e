package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
)

// byeautoHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func byeautoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// workItemFormValues backs the add form. Priority and status are kept as
// strings so huh can bind them directly.
type workItemFormValues struct {
	Vehicle    string
	Client     string
	WorkType   string
	Priority   string
	Estimate   string
	AssignedTo string
	Status     string
	Notes      string
}

func (v workItemFormValues) toNew() domain.NewWorkItem {
	return domain.NewWorkItem{
		Vehicle:       v.Vehicle,
		Client:        v.Client,
		WorkType:      v.WorkType,
		Priority:      domain.Priority(v.Priority),
		EstimatedTime: v.Estimate,
		AssignedTo:    v.AssignedTo,
		Status:        domain.Status(v.Status),
		Notes:         v.Notes,
	}
}

// wizardWorkItem creates the two-page form for a new work item. The
// assignee choices come from the workshop roster.
func wizardWorkItem(roster []string, v *workItemFormValues) *huh.Form {
	if v.Priority == "" {
		v.Priority = string(domain.PriorityMedium)
	}
	if v.Status == "" {
		v.Status = string(domain.StatusPending)
	}

	assignees := []huh.Option[string]{huh.NewOption("Unassigned", "")}
	for _, name := range roster {
		assignees = append(assignees, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			requiredInput("Vehicle", "BMW X5", &v.Vehicle),
			huh.NewInput().Title("Client").Placeholder("Ion Popescu").Value(&v.Client),
			huh.NewInput().Title("Work Type").Placeholder("Oil Change").Value(&v.WorkType),
			estimateInput("Estimated Time", &v.Estimate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions()...).
				Value(&v.Priority),
			huh.NewSelect[string]().
				Title("Assigned To").
				Options(assignees...).
				Value(&v.AssignedTo),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions()...).
				Value(&v.Status),
			huh.NewText().Title("Notes").Value(&v.Notes),
		),
	).WithTheme(byeautoHuhTheme()).WithShowHelp(false)
}

// wizardSelectWorkItem creates a huh form to pick one of items.
func wizardSelectWorkItem(items []*domain.WorkItem, result *string) *huh.Form {
	if len(items) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(items))
	for _, w := range items {
		label := w.Vehicle
		if w.WorkType != "" {
			label = fmt.Sprintf("%s · %s", w.Vehicle, w.WorkType)
		}
		options = append(options, huh.NewOption(label, w.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Work Item?").
				Options(options...).
				Value(result),
		),
	).WithTheme(byeautoHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(byeautoHuhTheme()).WithShowHelp(false)
}

func priorityOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		opts = append(opts, huh.NewOption(strings.ToUpper(string(p[:1]))+string(p[1:]), string(p)))
	}
	return opts
}

func statusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		opts = append(opts, huh.NewOption(formatter.StatusLabel(s), string(s)))
	}
	return opts
}

// validateEstimate accepts empty or a label ParseEstimate understands.
func validateEstimate(s string) error {
	if _, err := domain.ParseEstimate(s); err != nil {
		return fmt.Errorf("use a duration such as 2h, 1h30m or 45m")
	}
	return nil
}

// validateTimeOfDay accepts an HH:MM wall-clock time.
func validateTimeOfDay(s string) error {
	if _, err := domain.ParseTimeOfDay(s); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

// validateNonNegativeHours accepts empty or a non-negative decimal number.
func validateNonNegativeHours(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number of hours")
	}
	return nil
}
