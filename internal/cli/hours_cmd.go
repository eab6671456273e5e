package cli

import (
	"fmt"
	"strings"

	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/spf13/cobra"
)

func newHoursCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Workshop opening hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchedule(cmd, app)
		},
	}

	cmd.AddCommand(
		newHoursShowCmd(app),
		newHoursSetCmd(app),
		newHoursTodayCmd(app),
	)

	return cmd
}

func newHoursShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchedule(cmd, app)
		},
	}
}

func printSchedule(cmd *cobra.Command, app *App) error {
	today := app.now().In(app.location()).Weekday()
	fmt.Fprint(cmd.OutOrStdout(), formatter.ScheduleTable(app.Hours.Schedule(), today))
	fmt.Fprintln(cmd.OutOrStdout(), openLine(app))
	return nil
}

// openLine is the one-line open/closed state shown under schedules and on
// the dashboard.
func openLine(app *App) string {
	today := app.Hours.CurrentDayHours()
	if !today.Enabled {
		return formatter.StyleRed.Render("Closed today")
	}
	if app.Hours.IsCurrentlyOpen() {
		return fmt.Sprintf("%s  %s  %s left",
			formatter.StyleGreen.Render("Open now"),
			formatter.Dim(formatter.DayHoursText(today)),
			formatter.FormatHours(app.Hours.RemainingHoursToday()))
	}
	return fmt.Sprintf("%s  %s", formatter.StyleYellow.Render("Closed now"), formatter.Dim(formatter.DayHoursText(today)))
}

func newHoursSetCmd(app *App) *cobra.Command {
	var (
		openAt, closeAt string
		closed, opened  bool
	)

	cmd := &cobra.Command{
		Use:   "set DAY",
		Short: "Change the hours of one weekday",
		Long:  "Change the hours of one weekday, e.g. \"hours set saturday --open 09:00 --close 13:00\" or \"hours set sun --closed\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := domain.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			if closed && opened {
				return fmt.Errorf("--closed and --enabled are mutually exclusive")
			}

			day, _ := app.Hours.Schedule().Day(wd)
			flags := cmd.Flags()
			if !flags.Changed("open") && !flags.Changed("close") && !closed && !opened {
				if !app.interactive() {
					return fmt.Errorf("pass --open/--close, --enabled or --closed")
				}
				openAt, closeAt, opened = day.Open.String(), day.Close.String(), day.Enabled
				if err := dayHoursForm(wd.String(), &openAt, &closeAt, &opened).Run(); err != nil {
					return err
				}
				closed = !opened
				_ = flags.Set("open", openAt)
				_ = flags.Set("close", closeAt)
			}

			if flags.Changed("open") {
				if day.Open, err = domain.ParseTimeOfDay(openAt); err != nil {
					return err
				}
			}
			if flags.Changed("close") {
				if day.Close, err = domain.ParseTimeOfDay(closeAt); err != nil {
					return err
				}
			}
			switch {
			case closed:
				day.Enabled = false
			case opened, flags.Changed("open"), flags.Changed("close"):
				day.Enabled = true
			}

			if err := app.Hours.SetDay(cmd.Context(), wd, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", wd, formatter.DayHoursText(day))
			return nil
		},
	}

	cmd.Flags().StringVar(&openAt, "open", "", "Opening time, HH:MM")
	cmd.Flags().StringVar(&closeAt, "close", "", "Closing time, HH:MM")
	cmd.Flags().BoolVar(&closed, "closed", false, "Mark the day closed")
	cmd.Flags().BoolVar(&opened, "enabled", false, "Mark the day open with its current times")

	return cmd
}

func newHoursTodayCmd(app *App) *cobra.Command {
	var extra float64
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's hours and when overtime past closing would end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if extra < 0 {
				return fmt.Errorf("--extra must not be negative")
			}
			out := cmd.OutOrStdout()
			now := app.now().In(app.location())

			var b strings.Builder
			fmt.Fprintf(&b, "%s  %s\n", formatter.Bold(now.Weekday().String()), formatter.DayHoursText(app.Hours.CurrentDayHours()))
			fmt.Fprintln(&b, openLine(app))
			if cmd.Flags().Changed("extra") {
				if end, ok := app.Hours.WorkEndTime(extra); ok {
					fmt.Fprintf(&b, "%s past closing ends at %s\n", formatter.FormatHours(extra), end.In(app.location()).Format("15:04"))
				} else {
					fmt.Fprintln(&b, formatter.Dim("No end time: the workshop is closed today"))
				}
			}
			fmt.Fprint(out, b.String())
			return nil
		},
	}
	cmd.Flags().Float64Var(&extra, "extra", 0, "Hours of work past today's closing time")
	return cmd
}
