package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/cli/tui"
	"github.com/jmg049/htmlview/types"
	"github.com/jmg049/htmlview/viewer"
)

// WatchCommand returns the watch command: display a local HTML file and
// push refreshed content into the running viewer whenever it changes.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Display a local HTML file and refresh the viewer when it changes",
		ArgsUsage: "<path>",
		Flags: append(ViewerFlags(),
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period after a change before refreshing",
				Value: 100 * time.Millisecond,
			}),
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("watch requires exactly one path argument", exitUsage)
	}
	path, err := filepath.Abs(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	if _, err := os.Stat(path); err != nil {
		return cli.Exit(fmt.Sprintf("cannot read %s: %v", path, err), exitUsage)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	opts := buildOptions(c, cfg, types.LocalFile(path))
	opts.Wait = viewer.NonBlocking
	opts.EnableRefresh = true

	started := time.Now()
	res, err := viewer.OpenWith(opts, newLocator(c, cfg), newLogger(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("viewer launch failed: %v", err), exitViewerError)
	}
	handle := res.Handle

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = handle.Terminate()
		_ = handle.Close()
		return cli.Exit(fmt.Sprintf("cannot watch %s: %v", path, err), exitViewerError)
	}
	defer watcher.Close()

	// Editors typically replace the file via rename, which invalidates a
	// watch on the file itself; watching the directory and filtering by
	// name survives that.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = handle.Terminate()
		_ = handle.Close()
		return cli.Exit(fmt.Sprintf("cannot watch %s: %v", path, err), exitViewerError)
	}

	p := tea.NewProgram(tui.NewWatchModel(handle.ID(), path))
	done := make(chan struct{})
	defer close(done)

	go pushChanges(p, watcher, handle, path, c.Duration("debounce"), done)
	go func() {
		status, waitErr := handle.Wait()
		p.Send(tui.ViewerExitedMsg{Status: status, Err: waitErr})
	}()

	final, err := p.Run()
	if err != nil {
		_ = handle.Terminate()
		_ = handle.Close()
		return cli.Exit(fmt.Sprintf("watch UI failed: %v", err), exitViewerError)
	}
	model := final.(tui.WatchModel)

	if model.UserQuit() {
		_ = handle.Terminate()
		_, _ = handle.Wait()
		_ = handle.Close()
		return nil
	}

	status, exitErr := model.ExitStatus()
	if exitErr != nil {
		return cli.Exit(fmt.Sprintf("viewer failed: %v", exitErr), exitViewerError)
	}
	recordSession(c, cfg, opts, status, started, model.Refreshes())
	return reportStatus(c, status)
}

// pushChanges forwards debounced file changes to the viewer as refresh
// commands and reports each push to the TUI.
func pushChanges(p *tea.Program, watcher *fsnotify.Watcher, handle *viewer.Handle, path string, debounce time.Duration, done <-chan struct{}) {
	var (
		timer  *time.Timer
		pushes uint64
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	timerC := func() <-chan time.Time {
		if timer == nil {
			return nil
		}
		return timer.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

		case <-timerC():
			err := handle.Refresh(types.LocalFile(path))
			if err == nil {
				pushes++
			}
			p.Send(tui.RefreshedMsg{Seq: pushes, Err: err})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.Send(tui.RefreshedMsg{Err: err})

		case <-done:
			return
		}
	}
}
