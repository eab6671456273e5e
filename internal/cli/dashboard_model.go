package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/media2net-app/byeauto/internal/cli/formatter"
	"github.com/media2net-app/byeauto/internal/domain"
)

// ── data types ───────────────────────────────────────────────────────────────

// dashboardData is one consistent read of the board and the hours.
type dashboardData struct {
	items       []*domain.WorkItem
	summary     domain.HoursSummary
	openLine    string
	loggedToday time.Duration
	sessions    int
}

// ── messages ─────────────────────────────────────────────────────────────────

// dashboardLoadedMsg signals that dashboard data has been loaded. warn
// carries a corrupt-data notice from a reload; the data is still usable.
type dashboardLoadedMsg struct {
	data dashboardData
	warn error
	err  error
}

// dashboardTickMsg triggers the periodic reload from the database.
type dashboardTickMsg time.Time

// boardChangedMsg is forwarded from the work-item store's subscribers.
type boardChangedMsg domain.ChangeEvent

// ── view ─────────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// dashboardModel is the read-only workshop overview: the Kanban board, the
// hours summary and today's opening state. It reloads from the database
// every refresh interval so edits made from other terminals show up.
type dashboardModel struct {
	ctx     context.Context
	app     *App
	refresh time.Duration
	keys    dashboardKeyMap
	help    help.Model

	width, height int

	data    *dashboardData
	loading bool
	warn    error
	err     error
	loaded  time.Time
}

func newDashboardModel(ctx context.Context, app *App, refresh time.Duration) dashboardModel {
	return dashboardModel{
		ctx:     ctx,
		app:     app,
		refresh: refresh,
		keys: dashboardKeyMap{
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		help:    help.New(),
		width:   100,
		loading: true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadData(false), m.tick())
}

func (m dashboardModel) tick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return dashboardTickMsg(t) })
}

// ── data loading ─────────────────────────────────────────────────────────────

// loadData reads the stores. With reload set it first writes anything never
// stored and then reloads both documents from the database.
func (m dashboardModel) loadData(reload bool) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		var warn error
		if reload {
			if err := errors.Join(app.Hours.Flush(ctx), app.WorkItems.Flush(ctx)); err != nil {
				return dashboardLoadedMsg{err: err}
			}
			for _, load := range []func(context.Context) error{app.Hours.Load, app.WorkItems.Load} {
				if err := load(ctx); err != nil {
					var corrupt *domain.CorruptDataError
					if !errors.As(err, &corrupt) {
						return dashboardLoadedMsg{err: err}
					}
					warn = err
				}
			}
		}
		data, err := snapshotDashboard(ctx, app)
		return dashboardLoadedMsg{data: data, warn: warn, err: err}
	}
}

func snapshotDashboard(ctx context.Context, app *App) (dashboardData, error) {
	data := dashboardData{
		items:    allItems(app),
		summary:  app.WorkItems.AggregateHours(),
		openLine: openLine(app),
	}

	now := app.now().In(app.location())
	y, mo, d := now.Date()
	sessions, err := app.Sessions.ListSince(ctx, time.Date(y, mo, d, 0, 0, 0, 0, now.Location()))
	if err != nil {
		return data, fmt.Errorf("loading today's sessions: %w", err)
	}
	for _, s := range sessions {
		data.loggedToday += s.Elapsed
	}
	data.sessions = len(sessions)
	return data, nil
}

// loggedLine summarizes today's timer sessions.
func (d dashboardData) loggedLine() string {
	return fmt.Sprintf("Logged today  %s in %d sessions", formatter.FormatElapsed(d.loggedToday), d.sessions)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data = &msg.data
			m.warn = msg.warn
			m.loaded = m.app.now()
		}
		return m, nil

	case dashboardTickMsg:
		return m, tea.Batch(m.loadData(true), m.tick())

	case boardChangedMsg:
		return m, m.loadData(false)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadData(true)
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.data == nil {
		if m.err != nil {
			return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
		}
		return formatter.Dim("Loading board...") + "\n"
	}

	var b strings.Builder
	title := formatter.StyleHeader.Render("BYEAUTO WORKSHOP")
	fmt.Fprintf(&b, "%s  %s\n", title, m.data.openLine)
	b.WriteString(formatter.Dim(strings.Repeat("─", max(20, m.width-2))) + "\n\n")

	b.WriteString(formatter.Kanban(m.data.items, m.width) + "\n\n")
	b.WriteString(formatter.RenderBox("Hours", formatter.HoursSummary(m.data.summary, m.app.location())) + "\n")
	b.WriteString(m.data.loggedLine() + "\n")

	if m.warn != nil {
		b.WriteString(formatter.StyleYellow.Render("warning: "+m.warn.Error()) + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}

	status := "updated " + m.loaded.In(m.app.location()).Format("15:04:05")
	if m.loading {
		status = "refreshing..."
	}
	fmt.Fprintf(&b, "%s  %s", formatter.Dim(status), m.help.View(m.keys))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
