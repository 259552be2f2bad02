package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
)

// workDirPrefix names per-session working areas under os.TempDir.
const workDirPrefix = "htmlview_"

// defaultLocator is the process-wide memoized binary discovery used by
// Open and Show.
var defaultLocator = &DefaultLocator{}

// OpenResult is the outcome of Open: a terminal exit status in blocking
// mode, or a live handle in non-blocking mode. Exactly one field is set.
type OpenResult struct {
	// Status is the viewer's exit status (blocking mode).
	Status *types.ViewerExitStatus
	// Handle is the running session (non-blocking mode).
	Handle *Handle
}

// Show displays inline HTML in a viewer window and blocks until the
// window is closed. This is the simplest entry point.
func Show(html string) error {
	_, err := Open(InlineHTML(html))
	return err
}

// Open launches a viewer session with the default binary discovery and no
// logging.
func Open(opts ViewerOptions) (*OpenResult, error) {
	return OpenWith(opts, defaultLocator, nil)
}

// OpenWith launches a viewer session with an explicit locator and logger.
// A nil logger disables logging.
//
// In blocking mode the call returns after the viewer exits, with the
// validated exit status. In non-blocking mode it returns immediately with
// a Handle owning the working area; the caller must eventually call
// Handle.Wait, a terminal Handle.Poll, or Handle.Close to release it.
func OpenWith(opts ViewerOptions, locator AppLocator, logger *log.Logger) (*OpenResult, error) {
	if logger == nil {
		logger = log.Nop()
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger = logger.With("viewer_id", id)

	workDir := workDirFor(id)
	if err := os.MkdirAll(workDir, 0o700); err != nil {
		return nil, newError(ErrConfigWrite, "create-workdir", workDir,
			fmt.Sprintf("check that %s is writable and has sufficient space", os.TempDir()), err)
	}

	guard := NewDirGuard(workDir)
	defer guard.Cleanup()

	requestPath := filepath.Join(workDir, types.RequestFileName)
	resultPath := filepath.Join(workDir, types.ResultFileName)
	commandPath := filepath.Join(workDir, types.CommandFileName)
	responsePath := filepath.Join(workDir, types.CommandResponseFileName)

	request := types.ViewerRequest{
		ID:          id,
		Content:     opts.Content,
		Window:      opts.Window,
		Behaviour:   opts.Behaviour,
		Environment: opts.Environment,
		Dialog:      opts.Dialog,
	}
	if opts.EnableRefresh {
		request.CommandPath = commandPath
	}

	data, err := json.MarshalIndent(&request, "", "  ")
	if err != nil {
		// Serialization failure is a programming defect, not an
		// environment problem; keep it distinct from I/O failures.
		return nil, newError(ErrEncodeRequest, "encode-request", "", "", err)
	}
	if err := os.WriteFile(requestPath, data, 0o600); err != nil {
		return nil, newError(ErrConfigWrite, "write-request", requestPath, "", err)
	}

	binary, err := locator.LocateViewerBinary()
	if err != nil {
		// Binary discovery failures are user-actionable; propagate
		// unchanged.
		return nil, err
	}

	cmd := exec.Command(binary, "--request-path", requestPath, "--result-path", resultPath)
	if err := cmd.Start(); err != nil {
		return nil, newError(ErrSpawnFailed, "spawn", binary,
			"verify the binary exists and is executable", err)
	}
	logger.Debug("viewer process spawned", map[string]any{
		"binary": binary,
		"pid":    cmd.Process.Pid,
	})

	if opts.Wait == NonBlocking {
		// Ownership moves to the handle: release the launcher-scoped guard
		// and arm a fresh one the handle fires on its own terms.
		guard.Disarm()
		handle := newHandle(id, cmd, NewDirGuard(workDir), resultPath, opts.EnableRefresh, commandPath, responsePath, logger)
		return &OpenResult{Handle: handle}, nil
	}

	exitCode, waitErr := waitExitCode(cmd)
	if waitErr != nil {
		return nil, newError(ErrSpawnFailed, "wait", binary, "", waitErr)
	}

	status, err := readResultFile(resultPath, id, logger)
	if err != nil {
		return nil, err
	}

	// The result artifact is trusted over the raw exit code whenever it
	// carries an explicit error; otherwise a non-zero exit is synthesized
	// into a failure.
	if exitCode != 0 && status.Reason != types.ExitError {
		return nil, newError(ErrSpawnFailed, "wait", binary,
			fmt.Sprintf("viewer process exited with code %d", exitCode), nil)
	}

	logger.Debug("viewer exited", map[string]any{"reason": string(status.Reason)})
	return &OpenResult{Status: status}, nil
}

// waitExitCode waits for the process and extracts its exit code. An
// *exec.ExitError is a normal non-zero exit, not a wait failure.
func waitExitCode(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// workDirFor derives the working-area path for a session id.
func workDirFor(id string) string {
	return filepath.Join(os.TempDir(), workDirPrefix+id)
}
