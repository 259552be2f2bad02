package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmg049/htmlview/types"
)

func TestWatchModel_RefreshCounting(t *testing.T) {
	m := NewWatchModel("abc-123", "/tmp/report.html")

	var model tea.Model = m
	model, _ = model.(WatchModel).Update(RefreshedMsg{Seq: 1})
	model, _ = model.(WatchModel).Update(RefreshedMsg{Seq: 2})
	model, _ = model.(WatchModel).Update(RefreshedMsg{Err: errors.New("push failed")})

	final := model.(WatchModel)
	if final.Refreshes() != 2 {
		t.Errorf("refreshes = %d, want 2 (failed pushes do not count)", final.Refreshes())
	}
	if final.lastSeq != 2 {
		t.Errorf("lastSeq = %d, want 2", final.lastSeq)
	}
	if final.lastErr == nil {
		t.Error("last error should be retained for display")
	}
}

func TestWatchModel_ViewerExitQuits(t *testing.T) {
	m := NewWatchModel("abc-123", "/tmp/report.html")
	status := &types.ViewerExitStatus{ID: "abc-123", Reason: types.ExitClosedByUser}

	model, cmd := m.Update(ViewerExitedMsg{Status: status})
	if cmd == nil {
		t.Fatal("viewer exit should quit the program")
	}

	final := model.(WatchModel)
	got, err := final.ExitStatus()
	if err != nil || got != status {
		t.Errorf("ExitStatus = %+v, %v; want the delivered status", got, err)
	}
	if final.UserQuit() {
		t.Error("a viewer exit is not a user quit")
	}
}

func TestWatchModel_QuitKey(t *testing.T) {
	m := NewWatchModel("abc-123", "/tmp/report.html")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit the program")
	}
	if !model.(WatchModel).UserQuit() {
		t.Error("q should mark the quit as user initiated")
	}
}

func TestWatchModel_ViewShowsSessionAndSource(t *testing.T) {
	m := NewWatchModel("abc-123", "/tmp/report.html")
	m, _ = applyRefresh(m, RefreshedMsg{Seq: 3})

	view := m.View()
	for _, want := range []string{"abc-123", "/tmp/report.html", "watching", "#3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
}

func applyRefresh(m WatchModel, msg RefreshedMsg) (WatchModel, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(WatchModel), cmd
}
