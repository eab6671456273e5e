package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// requiredInput returns a huh.Input that rejects blank values.
func requiredInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", title)
			}
			return nil
		})
}

// estimateInput returns a huh.Input for an optional estimate label.
func estimateInput(title string, value *string) *huh.Input {
	if title == "" {
		title = "Estimated Time"
	}
	return huh.NewInput().
		Title(title).
		Placeholder("2h").
		Value(value).
		Validate(validateEstimate)
}

// hoursForm returns a themed single-field Form for collecting worked hours.
func hoursForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Actual Work Hours").
				Placeholder("1.5").
				Value(value).
				Validate(validateNonNegativeHours),
		),
	).WithTheme(byeautoHuhTheme()).WithShowHelp(false)
}

// dayHoursForm returns a themed Form for one weekday's opening hours.
func dayHoursForm(day string, open, closeAt *string, enabled *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Open on %s?", day)).
				Affirmative("Open").
				Negative("Closed").
				Value(enabled),
			huh.NewInput().
				Title("Opens At").
				Placeholder("08:00").
				Value(open).
				Validate(validateTimeOfDay),
			huh.NewInput().
				Title("Closes At").
				Placeholder("18:00").
				Value(closeAt).
				Validate(validateTimeOfDay),
		),
	).WithTheme(byeautoHuhTheme()).WithShowHelp(false)
}
