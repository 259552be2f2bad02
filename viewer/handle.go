package viewer

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
)

// Handle is a live non-blocking viewer session. It owns the working area
// (transferred from the launcher) and the live-update command channel.
//
// A single goroutine reaps the child process; Poll and Refresh observe
// exit through its done channel without blocking. Handle methods are safe
// for concurrent use: sequence numbers come from an atomic counter and
// the terminal status is resolved exactly once.
type Handle struct {
	id     string
	cmd    *exec.Cmd
	guard  *DirGuard
	logger *log.Logger

	resultPath      string
	commandPath     string // empty when refresh was not enabled
	responsePath    string
	responseTimeout time.Duration

	// seq allocates live-command sequence numbers. Private to this handle,
	// strictly increasing, never reused.
	seq atomic.Uint64

	done     chan struct{}
	exitCode int
	waitErr  error

	finishOnce sync.Once
	status     *types.ViewerExitStatus
	statusErr  error
}

func newHandle(id string, cmd *exec.Cmd, guard *DirGuard, resultPath string, refresh bool, commandPath, responsePath string, logger *log.Logger) *Handle {
	h := &Handle{
		id:              id,
		cmd:             cmd,
		guard:           guard,
		logger:          logger,
		resultPath:      resultPath,
		responseTimeout: commandResponseTimeout,
		done:            make(chan struct{}),
	}
	if refresh {
		h.commandPath = commandPath
		h.responsePath = responsePath
	}

	go func() {
		h.exitCode, h.waitErr = waitExitCode(cmd)
		close(h.done)
	}()

	return h
}

// ID returns the session identity.
func (h *Handle) ID() string { return h.id }

// WorkDir returns the working-area path. Valid until Close.
func (h *Handle) WorkDir() string { return h.guard.Path() }

// exited reports whether the viewer process has exited, without blocking.
func (h *Handle) exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Poll checks whether the viewer has finished without blocking. It
// returns (nil, nil) while the viewer is still running, and the validated
// exit status once it has exited. A terminal Poll releases the working
// area.
func (h *Handle) Poll() (*types.ViewerExitStatus, error) {
	if !h.exited() {
		return nil, nil
	}
	return h.finish()
}

// Wait blocks until the viewer exits and returns the validated exit
// status, then releases the working area.
func (h *Handle) Wait() (*types.ViewerExitStatus, error) {
	<-h.done
	return h.finish()
}

// Terminate forcibly kills the viewer process. This is the only
// cancellation primitive; there is no graceful-shutdown handshake.
// Terminating an already-exited viewer is a no-op.
func (h *Handle) Terminate() error {
	if h.exited() {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil {
		return newError(ErrSpawnFailed, "terminate", "", "", err)
	}
	return nil
}

// Close releases the working area. Idempotent; the underlying guard
// removes the directory at most once.
func (h *Handle) Close() error {
	h.guard.Cleanup()
	return nil
}

// finish retrieves and caches the terminal status exactly once, so a
// Poll after Wait (or repeated terminal Polls) see a stable answer even
// though the working area is gone.
func (h *Handle) finish() (*types.ViewerExitStatus, error) {
	h.finishOnce.Do(func() {
		defer h.guard.Cleanup()

		if h.waitErr != nil {
			h.statusErr = newError(ErrSpawnFailed, "wait", "", "", h.waitErr)
			return
		}

		status, err := readResultFile(h.resultPath, h.id, h.logger)
		if err != nil {
			h.statusErr = err
			return
		}
		if h.exitCode != 0 && status.Reason != types.ExitError {
			h.statusErr = newError(ErrSpawnFailed, "wait", "",
				fmt.Sprintf("viewer process exited with code %d", h.exitCode), nil)
			return
		}
		h.status = status
	})
	return h.status, h.statusErr
}
