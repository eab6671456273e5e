package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/media2net-app/byeauto/internal/app"
	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/config"
	"github.com/media2net-app/byeauto/internal/service"
	"github.com/spf13/cobra"
)

// App holds the wired workshop and the terminal hooks used by CLI commands.
// When Workshop is nil the root command opens one from configuration before
// any subcommand runs.
type App struct {
	*app.Workshop

	// IsInteractive reports whether stdin is a terminal. Forms, confirmations
	// and full-screen views are only used when it returns true.
	IsInteractive func() bool

	// LogOutput receives the engine's structured logs. Defaults to stderr.
	LogOutput io.Writer

	// Options are applied after the config-derived service options.
	Options []service.Option

	// Now is the display clock. Defaults to time.Now.
	Now func() time.Time

	owned bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// location is the workshop's configured time zone.
func (a *App) location() *time.Location {
	if a.Workshop == nil || a.Config == nil {
		return time.Local
	}
	loc, err := a.Config.TimeLocation()
	if err != nil {
		return time.Local
	}
	return loc
}

// open loads configuration and opens the workshop unless one is already wired.
func (a *App) open(cmd *cobra.Command) error {
	if a.Workshop != nil {
		return nil
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logw := a.LogOutput
	if logw == nil {
		logw = cmd.ErrOrStderr()
	}
	ws, err := app.Open(cmd.Context(), cfg, logw, a.Options...)
	if err != nil {
		return err
	}
	a.Workshop = ws
	a.owned = true
	for _, w := range ws.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", formatter.StyleYellow.Render("warning:"), w)
	}
	return nil
}

// Close flushes and closes a workshop opened by the root command. A
// workshop supplied by the caller is left open.
func (a *App) Close(ctx context.Context) error {
	if !a.owned {
		return nil
	}
	err := a.Workshop.Close(ctx)
	a.Workshop = nil
	a.owned = false
	return err
}

// NewRootCmd creates the top-level "byeauto" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var once bool
	root := &cobra.Command{
		Use:           "byeauto",
		Short:         "Workshop board, opening hours and work timer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if once || !app.interactive() {
				return printBoard(cmd, app)
			}
			return runDashboard(cmd, app)
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default ./byeauto.yaml or ~/.byeauto/byeauto.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database path")
	root.PersistentFlags().String("location", "", "Workshop time zone, e.g. Europe/Bucharest")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.Flags().BoolVar(&once, "once", false, "Print the board once instead of opening the dashboard")

	root.AddCommand(
		newWorkCmd(app),
		newHoursCmd(app),
		newTimerCmd(app),
		newDashboardCmd(app),
	)

	return root
}

// Execute runs the command line in args and closes any workshop it opened,
// whether or not the command succeeded.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := app.Close(ctx); cerr != nil {
		if err == nil {
			return cerr
		}
		return fmt.Errorf("%w (closing: %v)", err, cerr)
	}
	return err
}
