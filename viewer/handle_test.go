package viewer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
)

// newTestHandle builds a handle around a bare working area, with no child
// process, for exercising the command channel in isolation. The done
// channel stays open so the handle reads as still running.
func newTestHandle(t *testing.T) *Handle {
	t.Helper()
	dir := t.TempDir()
	return &Handle{
		id:              "test-session",
		guard:           NewDirGuard(dir),
		logger:          log.Nop(),
		commandPath:     filepath.Join(dir, types.CommandFileName),
		responsePath:    filepath.Join(dir, types.CommandResponseFileName),
		responseTimeout: 300 * time.Millisecond,
		done:            make(chan struct{}),
	}
}

// respond acts as the viewer side of the command channel: it waits for
// the command bearing expect to appear, then writes the given
// acknowledgement for it. Waiting on a specific sequence number keeps a
// responder from acknowledging a command left over from an earlier step.
func respond(t *testing.T, h *Handle, expect uint64, success bool, message string) {
	t.Helper()
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			data, err := os.ReadFile(h.commandPath)
			if err == nil {
				var cmd types.ViewerCommand
				if json.Unmarshal(data, &cmd) == nil && cmd.Seq == expect {
					resp, _ := json.Marshal(types.ViewerCommandResponse{
						Seq:     cmd.Seq,
						Success: success,
						Error:   message,
					})
					_ = os.WriteFile(h.responsePath, resp, 0o600)
					return
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()
}

func TestHandle_RefreshAcknowledged(t *testing.T) {
	h := newTestHandle(t)
	respond(t, h, 1, true, "")

	if err := h.Refresh(types.InlineHTML("<p>updated</p>")); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	data, err := os.ReadFile(h.commandPath)
	if err != nil {
		t.Fatalf("read command: %v", err)
	}
	var cmd types.ViewerCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		t.Fatalf("unmarshal command: %v", err)
	}
	if cmd.Type != types.CommandRefresh {
		t.Errorf("command type = %q, want refresh", cmd.Type)
	}
	if cmd.Seq != 1 {
		t.Errorf("first command seq = %d, want 1", cmd.Seq)
	}
}

func TestHandle_RefreshRejected(t *testing.T) {
	h := newTestHandle(t)
	respond(t, h, 1, false, "content failed to load")

	err := h.Refresh(types.InlineHTML("<p>x</p>"))

	var failed *CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want CommandFailedError", err)
	}
	if failed.Seq != 1 {
		t.Errorf("seq = %d, want 1", failed.Seq)
	}
	if failed.Message != "content failed to load" {
		t.Errorf("message = %q, want the viewer's diagnostic", failed.Message)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Error("CommandFailedError should match ErrCommandFailed")
	}
}

func TestHandle_RefreshTimesOutWithoutAcknowledgement(t *testing.T) {
	h := newTestHandle(t)

	start := time.Now()
	err := h.Refresh(types.InlineHTML("<p>x</p>"))
	elapsed := time.Since(start)

	var timeout *CommandTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("error = %v, want CommandTimeoutError", err)
	}
	if timeout.Timeout != h.responseTimeout {
		t.Errorf("reported timeout = %s, want %s", timeout.Timeout, h.responseTimeout)
	}
	if elapsed < h.responseTimeout {
		t.Errorf("Refresh returned after %s, before the %s deadline", elapsed, h.responseTimeout)
	}
	if !errors.Is(err, ErrCommandTimeout) {
		t.Error("CommandTimeoutError should match ErrCommandTimeout")
	}
}

func TestHandle_StaleResponseNeverCompletesLaterCommand(t *testing.T) {
	h := newTestHandle(t)

	// A leftover acknowledgement from a previous command sits in the
	// response artifact before the new command is even issued.
	stale, _ := json.Marshal(types.ViewerCommandResponse{Seq: 7, Success: true})
	if err := os.WriteFile(h.responsePath, stale, 0o600); err != nil {
		t.Fatalf("write stale response: %v", err)
	}
	h.seq.Store(7)

	err := h.Refresh(types.InlineHTML("<p>x</p>"))
	var timeout *CommandTimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("stale acknowledgement must not satisfy a new command, got %v", err)
	}
	if timeout.Seq != 8 {
		t.Errorf("timed-out seq = %d, want 8", timeout.Seq)
	}
}

func TestHandle_StaleResponseSkippedUntilMatchingOneArrives(t *testing.T) {
	h := newTestHandle(t)

	stale, _ := json.Marshal(types.ViewerCommandResponse{Seq: 3, Success: false, Error: "old failure"})
	if err := os.WriteFile(h.responsePath, stale, 0o600); err != nil {
		t.Fatalf("write stale response: %v", err)
	}
	h.seq.Store(3)
	respond(t, h, 4, true, "")

	// The correct acknowledgement arrives after the stale one; the stale
	// failure must not be reported for the new command.
	if err := h.Refresh(types.InlineHTML("<p>x</p>")); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
}

func TestHandle_SequenceNumbersIncrease(t *testing.T) {
	h := newTestHandle(t)

	for want := uint64(1); want <= 3; want++ {
		respond(t, h, want, true, "")
		if err := h.Refresh(types.InlineHTML("<p>x</p>")); err != nil {
			t.Fatalf("Refresh %d: %v", want, err)
		}
		data, err := os.ReadFile(h.commandPath)
		if err != nil {
			t.Fatalf("read command: %v", err)
		}
		var cmd types.ViewerCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			t.Fatalf("unmarshal command: %v", err)
		}
		if cmd.Seq != want {
			t.Fatalf("command seq = %d, want %d", cmd.Seq, want)
		}
	}
}

func TestHandle_RefreshWithoutChannel(t *testing.T) {
	h := newTestHandle(t)
	h.commandPath = ""

	err := h.Refresh(types.InlineHTML("<p>x</p>"))
	if !errors.Is(err, ErrRefreshNotSupported) {
		t.Fatalf("error = %v, want ErrRefreshNotSupported", err)
	}
}

func TestHandle_RefreshAfterExit(t *testing.T) {
	h := newTestHandle(t)
	close(h.done)

	err := h.Refresh(types.InlineHTML("<p>x</p>"))
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
}

func openNonBlocking(t *testing.T, id, body string) *Handle {
	t.Helper()
	opts := InlineHTML("<p>x</p>")
	opts.ID = id
	opts.Wait = NonBlocking
	opts.EnableRefresh = true

	res, err := OpenWith(opts, viewerDouble(t, body), log.Nop())
	if err != nil {
		t.Fatalf("OpenWith: %v", err)
	}
	if res.Handle == nil {
		t.Fatal("non-blocking open should return a handle")
	}
	return res.Handle
}

func TestHandle_ReceivesArmedGuard(t *testing.T) {
	body := "sleep 1\n" + resultWriteLine(types.ExitClosedByUser, types.ProtocolVersion)
	h := openNonBlocking(t, "armed-guard", body)

	// The launcher releases its own scope on handoff; the handle must hold
	// a guard that still fires, or the working area outlives the session.
	if !h.guard.Armed() {
		t.Fatal("handle guard should be armed after a non-blocking open")
	}
	if _, err := os.Stat(h.WorkDir()); err != nil {
		t.Fatalf("working area missing while viewer runs: %v", err)
	}

	if _, err := h.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if _, err := os.Stat(h.WorkDir()); !os.IsNotExist(err) {
		t.Errorf("working area should be removed after Wait: %v", err)
	}
}

func TestHandle_PollThenWait(t *testing.T) {
	body := "sleep 1\n" + resultWriteLine(types.ExitClosedByUser, types.ProtocolVersion)
	h := openNonBlocking(t, "poll-wait", body)

	if status, err := h.Poll(); status != nil || err != nil {
		t.Fatalf("Poll on a running viewer = %+v, %v; want nil, nil", status, err)
	}

	status, err := h.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if status.Reason != types.ExitClosedByUser {
		t.Errorf("reason = %s, want closed_by_user", status.Reason)
	}

	// Terminal answers stay stable after the working area is released.
	again, err := h.Poll()
	if err != nil || again != status {
		t.Errorf("Poll after Wait = %+v, %v; want the cached status", again, err)
	}
	if _, err := os.Stat(h.WorkDir()); !os.IsNotExist(err) {
		t.Errorf("working area should be removed after Wait: %v", err)
	}
}

func TestHandle_TerminateKillsViewer(t *testing.T) {
	body := resultWriteLine(types.ExitClosedByUser, types.ProtocolVersion) + "\nsleep 30"
	h := openNonBlocking(t, "terminate", body)

	// Let the double publish its status before killing it, so the failure
	// below comes from the abnormal exit rather than a missing artifact.
	resultPath := filepath.Join(h.WorkDir(), types.ResultFileName)
	for start := time.Now(); ; {
		if _, err := os.Stat(resultPath); err == nil {
			break
		}
		if time.Since(start) > 2*time.Second {
			t.Fatal("viewer double never published its exit status")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	// The double wrote a benign status before being killed; the abnormal
	// exit must still surface as a failure.
	_, err := h.Wait()
	if !errors.Is(err, ErrSpawnFailed) {
		t.Fatalf("Wait after Terminate = %v, want ErrSpawnFailed", err)
	}

	// Terminating a dead viewer is a no-op.
	if err := h.Terminate(); err != nil {
		t.Errorf("second Terminate: %v", err)
	}
}

func TestHandle_CloseReleasesWorkDir(t *testing.T) {
	body := "sleep 30"
	h := openNonBlocking(t, "close-early", body)
	defer func() { _ = h.Terminate() }()

	workDir := h.WorkDir()
	if _, err := os.Stat(workDir); err != nil {
		t.Fatalf("working area missing while viewer runs: %v", err)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("working area should be removed by Close: %v", err)
	}
}
