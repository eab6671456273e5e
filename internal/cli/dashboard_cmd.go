package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/spf13/cobra"
)

// boardWidth is the Kanban width used when printing outside the dashboard.
const boardWidth = 100

func newDashboardCmd(app *App) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"board"},
		Short:   "Show the board, the hours summary and today's opening state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if once || !app.interactive() {
				return printBoard(cmd, app)
			}
			return runDashboard(cmd, app)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Print the board once and exit")
	return cmd
}

// printBoard writes a static rendering of the dashboard.
func printBoard(cmd *cobra.Command, app *App) error {
	data, err := snapshotDashboard(cmd.Context(), app)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n\n", formatter.StyleHeader.Render("BYEAUTO WORKSHOP"), data.openLine)
	fmt.Fprintln(out, formatter.Kanban(data.items, boardWidth))
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.RenderBox("Hours", formatter.HoursSummary(data.summary, app.location())))
	fmt.Fprintln(out, data.loggedLine())
	return nil
}

// runDashboard runs the dashboard full screen until the user quits.
func runDashboard(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	p := tea.NewProgram(newDashboardModel(ctx, app, app.Config.Dashboard.Refresh),
		tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := app.WorkItems.Subscribe(func(ev domain.ChangeEvent) {
		go p.Send(boardChangedMsg(ev))
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
