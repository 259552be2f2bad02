package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmg049/htmlview/types"
)

// RefreshedMsg reports one push of updated content to the viewer.
type RefreshedMsg struct {
	Seq uint64
	Err error
}

// ViewerExitedMsg reports that the watched viewer session ended.
type ViewerExitedMsg struct {
	Status *types.ViewerExitStatus
	Err    error
}

// WatchModel is the Bubble Tea model for the watch command: a live view
// of one viewer session being refreshed as its source file changes.
type WatchModel struct {
	sessionID string
	source    string

	spinner   spinner.Model
	refreshes int
	lastSeq   uint64
	lastAt    time.Time
	lastErr   error

	status   *types.ViewerExitStatus
	exitErr  error
	exited   bool
	userQuit bool
}

// NewWatchModel creates a watch model for the given session and source file.
func NewWatchModel(sessionID, source string) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = RunningStyle
	return WatchModel{
		sessionID: sessionID,
		source:    source,
		spinner:   sp,
	}
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.userQuit = true
			return m, tea.Quit
		}
		return m, nil

	case RefreshedMsg:
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.refreshes++
			m.lastSeq = msg.Seq
			m.lastAt = time.Now()
		}
		return m, nil

	case ViewerExitedMsg:
		m.exited = true
		m.status = msg.Status
		m.exitErr = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m WatchModel) View() string {
	if m.exited || m.userQuit {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Live Watch"))
	b.WriteString("\n\n")

	state := m.spinner.View() + " " + ReasonStyle("watching").Render("watching")
	rows := [][]string{
		{"Session", m.sessionID},
		{"Source", m.source},
		{"Refreshes", fmt.Sprintf("%d", m.refreshes)},
	}

	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("State:"), state))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render(row[0]+":"),
			ValueStyle.Render(row[1])))
	}
	if m.refreshes > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Last push:"),
			ValueStyle.Render(fmt.Sprintf("#%d at %s", m.lastSeq, m.lastAt.Format("15:04:05")))))
	}
	if m.lastErr != nil {
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Last error:"),
			ErrorStyle.Render(m.lastErr.Error())))
	}

	help := HelpStyle.Render("Press q to stop watching (the viewer stays open)")
	return BoxStyle.Render(b.String()) + "\n" + help
}

// UserQuit reports whether the user stopped the watch, as opposed to the
// viewer exiting on its own.
func (m WatchModel) UserQuit() bool { return m.userQuit }

// Refreshes returns the number of successful content pushes.
func (m WatchModel) Refreshes() int { return m.refreshes }

// ExitStatus returns the viewer's exit outcome once ViewerExitedMsg has
// been delivered; both values are nil/zero before that.
func (m WatchModel) ExitStatus() (*types.ViewerExitStatus, error) {
	return m.status, m.exitErr
}
