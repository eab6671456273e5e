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
	"github.com/media2net-app/byeauto/internal/service"
)

// timerTickMsg redraws the stopwatch. Elapsed time is read from the timer,
// so a late or dropped tick never skews it.
type timerTickMsg time.Time

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

type timerKeyMap struct {
	Start key.Binding
	Pause key.Binding
	Stop  key.Binding
	Next  key.Binding
	Quit  key.Binding
}

func newTimerKeyMap() timerKeyMap {
	return timerKeyMap{
		Start: key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "start")),
		Pause: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Stop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Next:  key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n", "next item")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Stop, k.Next, k.Quit}
}

func (k timerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// timerModel is the full-screen work timer. Every key maps to one WorkTimer
// call; the model only keeps what it needs to render.
type timerModel struct {
	ctx   context.Context
	timer *service.WorkTimer
	items *service.WorkItemStore
	keys  timerKeyMap
	help  help.Model

	width, height int

	snap        service.TimerSnapshot
	last        *domain.WorkSession
	lastVehicle string
	err         error
	confirmQuit bool
}

func newTimerModel(ctx context.Context, timer *service.WorkTimer, items *service.WorkItemStore) timerModel {
	h := help.New()
	h.Styles.ShortKey = formatter.StyleBold
	h.Styles.ShortDesc = formatter.StyleFg
	return timerModel{
		ctx:   ctx,
		timer: timer,
		items: items,
		keys:  newTimerKeyMap(),
		help:  h,
		snap:  timer.Snapshot(),
	}
}

func (m timerModel) Init() tea.Cmd {
	return timerTick()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case timerTickMsg:
		m.snap = m.timer.Snapshot()
		return m, timerTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m timerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.snap.State == domain.TimerIdle || m.confirmQuit || msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.confirmQuit = true
		return m, nil
	}
	m.confirmQuit = false
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Start):
		m.err = m.timer.Start(m.ctx)
	case key.Matches(msg, m.keys.Pause):
		m.err = m.timer.Pause(m.ctx)
	case key.Matches(msg, m.keys.Stop):
		vehicle := ""
		if m.snap.WorkItem != nil {
			vehicle = m.snap.WorkItem.Vehicle
		}
		session, err := m.timer.Stop(m.ctx)
		if err != nil {
			m.err = err
		} else {
			m.last, m.lastVehicle = session, vehicle
		}
	case key.Matches(msg, m.keys.Next):
		m.err = m.selectNext()
	}
	m.snap = m.timer.Snapshot()
	return m, nil
}

// selectNext moves the idle timer to the next selectable item, wrapping
// around.
func (m timerModel) selectNext() error {
	open := m.items.Selectable()
	if len(open) == 0 {
		return domain.ErrNoWorkItemSelected
	}
	next := open[0].ID
	if cur := m.snap.WorkItem; cur != nil {
		for i, w := range open {
			if w.ID == cur.ID {
				next = open[(i+1)%len(open)].ID
				break
			}
		}
	}
	return m.timer.Select(m.ctx, next)
}

func stateLabel(s domain.TimerState) string {
	switch s {
	case domain.TimerRunning:
		return "RUNNING"
	case domain.TimerPaused:
		return "PAUSED"
	default:
		return "READY"
	}
}

func (m timerModel) View() string {
	var b strings.Builder

	if w := m.snap.WorkItem; w != nil {
		fmt.Fprintf(&b, "%s\n", formatter.Bold(w.Vehicle))
		fmt.Fprintf(&b, "%s · %s · %s\n", formatter.OrDash(w.WorkType), formatter.OrDash(w.AssignedTo), formatter.StatusLabel(w.Status))
		if w.EstimatedHours > 0 {
			fmt.Fprintf(&b, "estimate %s\n", formatter.FormatHours(w.EstimatedHours))
		}
	} else {
		b.WriteString(formatter.Dim("No open work items") + "\n")
	}

	clock := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render(formatter.FormatElapsed(m.snap.Elapsed))
	fmt.Fprintf(&b, "%s\n%s\n", clock, stateLabel(m.snap.State))

	if m.last != nil {
		fmt.Fprintf(&b, "\nLogged %s on %s\n", formatter.FormatElapsed(m.last.Elapsed), m.lastVehicle)
	}
	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render(errorText(m.err)) + "\n")
	}
	if m.confirmQuit {
		b.WriteString("\n" + formatter.StyleYellow.Render("Timer is not stopped. Press q again to discard it.") + "\n")
	}

	panel := lipgloss.NewStyle().
		Background(formatter.TimerColor(m.snap.State)).
		Foreground(formatter.ColorBg).
		Padding(1, 4).
		Align(lipgloss.Center)
	if m.width > 0 {
		panel = panel.Width(m.width)
	}
	return panel.Render(b.String()) + "\n" + m.help.View(m.keys)
}

// errorText shortens the errors a timer key can produce.
func errorText(err error) string {
	var terr *domain.TransitionError
	switch {
	case errors.Is(err, domain.ErrNoWorkItemSelected):
		return "Nothing to time: add a pending work item first"
	case errors.As(err, &terr) && terr.Reason != "":
		return strings.ToUpper(terr.Reason[:1]) + terr.Reason[1:]
	default:
		return err.Error()
	}
}
