package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Time work on a work item",
		Long: `Open the work timer. Keys: s start or resume, p pause, x stop, n next item, q quit.

Starting a pending item moves it to in-progress. Stopping completes the item,
records the timed hours as its actual work hours and logs the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("the timer needs an interactive terminal")
			}
			ctx := cmd.Context()

			open := app.WorkItems.Selectable()
			if ref == "" && len(open) > 1 {
				if err := wizardSelectWorkItem(open, &ref).Run(); err != nil {
					return err
				}
			}
			if ref != "" {
				id, err := app.WorkItems.Resolve(ref)
				if err != nil {
					return err
				}
				if err := app.Timer.Select(ctx, id); err != nil {
					return err
				}
			}

			p := tea.NewProgram(newTimerModel(ctx, app.Timer, app.WorkItems),
				tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&ref, "work-item", "w", "", "Work item id or prefix to time")

	cmd.AddCommand(newTimerHistoryCmd(app))
	return cmd
}

func newTimerHistoryCmd(app *App) *cobra.Command {
	var (
		ref   string
		since time.Duration
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged timer sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				sessions []*domain.WorkSession
				err      error
			)
			if ref != "" {
				id, rerr := app.WorkItems.Resolve(ref)
				if rerr != nil {
					return rerr
				}
				sessions, err = app.Sessions.ListByWorkItem(ctx, id)
			} else {
				sessions, err = app.Sessions.ListSince(ctx, app.now().Add(-since))
			}
			if err != nil {
				return err
			}

			vehicles := make(map[string]string)
			for _, w := range allItems(app) {
				vehicles[w.ID] = w.Vehicle
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.SessionTable(sessions, vehicles, app.location()))

			var total time.Duration
			for _, s := range sessions {
				total += s.Elapsed
			}
			fmt.Fprintf(out, "%d sessions, %s worked\n", len(sessions), formatter.FormatElapsed(total))
			return nil
		},
	}
	cmd.Flags().StringVarP(&ref, "work-item", "w", "", "Only sessions of this work item")
	cmd.Flags().DurationVar(&since, "since", 7*24*time.Hour, "How far back to list when no work item is given")
	return cmd
}
