// Package main provides htmlview-headless, a windowless viewer that
// speaks the full viewer protocol without rendering anything. It exists
// for CI pipelines and integration tests: it consumes the request
// artifact, acknowledges refresh commands, and reports a well-formed exit
// status.
//
// Exit behavior:
//   - SIGINT/SIGTERM reports closed_by_user (the headless stand-in for
//     closing the window)
//   - timeout_seconds in the request reports timed_out
//   - an unreadable request reports error
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
)

func main() {
	app := &cli.App{
		Name:    "htmlview-headless",
		Usage:   "Headless protocol-complete viewer for tests and CI",
		Version: types.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "request-path",
				Usage:    "Path to the request artifact",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "result-path",
				Usage:    "Path to write the exit status artifact",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: func(c *cli.Context) error {
			logger := log.Nop()
			if c.Bool("debug") {
				logger = log.New("")
			}
			return run(c.String("request-path"), c.String("result-path"), logger)
		},
		ExitErrHandler: func(_ *cli.Context, err error) {
			if err == nil {
				return
			}
			var exitCoder cli.ExitCoder
			if errors.As(err, &exitCoder) {
				if msg := exitCoder.Error(); msg != "" {
					fmt.Fprintln(os.Stderr, msg)
				}
				os.Exit(exitCoder.ExitCode())
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func run(requestPath, resultPath string, logger *log.Logger) error {
	req, err := readRequest(requestPath)
	if err != nil {
		// Without a request there is no session id to echo; report the
		// failure as well as a malformed protocol allows.
		_ = writeResult(resultPath, types.ViewerExitStatus{
			Reason:        types.ExitError,
			Message:       err.Error(),
			ViewerVersion: types.Version,
		})
		return cli.Exit(err.Error(), 1)
	}
	logger = logger.With("viewer_id", req.ID)
	logger.Info("session started", map[string]any{"content": string(req.Content.Type)})

	done := make(chan struct{})
	defer close(done)
	if req.CommandPath != "" {
		if err := serveCommands(req.CommandPath, done, logger); err != nil {
			logger.Warn("command channel unavailable", map[string]any{"error": err.Error()})
		}
	}

	var timeout <-chan time.Time
	if req.Environment.TimeoutSeconds > 0 {
		timeout = time.After(time.Duration(req.Environment.TimeoutSeconds) * time.Second)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	reason := types.ExitClosedByUser
	select {
	case <-sig:
	case <-timeout:
		reason = types.ExitTimedOut
	}

	status := types.ViewerExitStatus{
		ID:            req.ID,
		Reason:        reason,
		ViewerVersion: types.Version,
	}
	if err := writeResult(resultPath, status); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logger.Info("session ended", map[string]any{"reason": string(reason)})
	return nil
}

func readRequest(path string) (*types.ViewerRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	var req types.ViewerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	if req.ID == "" {
		return nil, errors.New("request has no session id")
	}
	return &req, nil
}

// writeResult publishes the exit status atomically so the launcher never
// observes a partial artifact.
func writeResult(path string, status types.ViewerExitStatus) error {
	data, err := json.Marshal(&status)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// serveCommands watches the command artifact and acknowledges each new
// command until done is closed.
func serveCommands(commandPath string, done <-chan struct{}, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// The command file is renamed into place, so watch its directory.
	if err := watcher.Add(filepath.Dir(commandPath)); err != nil {
		watcher.Close()
		return err
	}

	responsePath := filepath.Join(filepath.Dir(commandPath), types.CommandResponseFileName)

	go func() {
		defer watcher.Close()
		var lastSeq uint64
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(commandPath) {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				if err := handleCommand(commandPath, responsePath, &lastSeq); err != nil {
					logger.Warn("command handling failed", map[string]any{"error": err.Error()})
				}

			case <-watcher.Errors:

			case <-done:
				return
			}
		}
	}()
	return nil
}

// handleCommand reads the current command and, if it has not been
// acknowledged yet, publishes a response bearing its sequence number.
func handleCommand(commandPath, responsePath string, lastSeq *uint64) error {
	data, err := os.ReadFile(commandPath)
	if err != nil {
		return err
	}
	var cmd types.ViewerCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return err
	}
	if cmd.Seq == 0 || cmd.Seq == *lastSeq {
		return nil
	}
	*lastSeq = cmd.Seq

	resp := types.ViewerCommandResponse{Seq: cmd.Seq, Success: true}
	if cmd.Type != types.CommandRefresh {
		resp.Success = false
		resp.Error = fmt.Sprintf("unsupported command type %q", cmd.Type)
	}

	out, err := json.Marshal(&resp)
	if err != nil {
		return err
	}
	tmp := responsePath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, responsePath)
}
