// Package viewer implements the out-of-process viewer orchestration core:
// launching the viewer application, the file-based request/response
// channel, exit-status retrieval, version negotiation and the live-update
// command channel.
package viewer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrBinaryNotFound indicates the viewer binary could not be located.
	// User-actionable: install the binary or set HTMLVIEW_APP_PATH.
	ErrBinaryNotFound = errors.New("viewer binary not found")

	// ErrSpawnFailed indicates the OS refused to start the viewer process,
	// or the process exited abnormally without reporting an error itself.
	ErrSpawnFailed = errors.New("failed to start viewer process")

	// ErrConfigWrite indicates the working area or request artifact could
	// not be created. Environment problem (permissions, disk space).
	ErrConfigWrite = errors.New("failed to write viewer configuration")

	// ErrEncodeRequest indicates the request could not be serialized.
	// Unlike ErrConfigWrite this points at a programming defect, not the
	// environment.
	ErrEncodeRequest = errors.New("failed to encode viewer request")

	// ErrResultRead indicates the result artifact never became readable
	// within the retry budget. The viewer likely crashed.
	ErrResultRead = errors.New("failed to read viewer result")

	// ErrInvalidResponse indicates an artifact was readable but corrupt:
	// unparseable JSON, an identity mismatch, or a malformed version string.
	ErrInvalidResponse = errors.New("invalid response from viewer")

	// ErrVersionMismatch indicates the viewer speaks an incompatible
	// protocol version. Actionable via upgrade/downgrade.
	ErrVersionMismatch = errors.New("viewer protocol version mismatch")

	// ErrCommandFailed indicates the viewer acknowledged a live-update
	// command with success=false.
	ErrCommandFailed = errors.New("viewer rejected command")

	// ErrCommandTimeout indicates no matching acknowledgement arrived
	// within the command-response timeout.
	ErrCommandTimeout = errors.New("timed out waiting for command response")

	// ErrRefreshNotSupported indicates the handle was created without a
	// command channel. Capability error, never retryable.
	ErrRefreshNotSupported = errors.New("refresh not supported by this handle")
)

// Error wraps an underlying error with failure classification. It
// preserves the cause in the chain for inspection via errors.As and
// matches its Kind sentinel under errors.Is.
type Error struct {
	// Kind is the sentinel error for classification (e.g. ErrSpawnFailed).
	Kind error
	// Op is the operation that failed (e.g. "spawn", "read-result").
	Op string
	// Path is the filesystem path involved, if any.
	Path string
	// Msg is human-readable detail, possibly including a suggestion.
	Msg string
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func newError(kind error, op, path, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Msg: msg, Err: err}
}

// ResultReadError reports that the result artifact never became readable.
// It carries the attempt count and last underlying I/O error so an operator
// can tell "crashed" from "slow disk" without instrumentation.
type ResultReadError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *ResultReadError) Error() string {
	return fmt.Sprintf("failed to read result file %s after %d attempts: %v (the viewer process may have crashed; check system logs or enable devtools)",
		e.Path, e.Attempts, e.Err)
}

// Unwrap returns the last underlying I/O error.
func (e *ResultReadError) Unwrap() error { return e.Err }

// Is matches ErrResultRead.
func (e *ResultReadError) Is(target error) bool { return target == ErrResultRead }

// VersionMismatchError reports an incompatible library/viewer pairing,
// with a suggestion the user can act on.
type VersionMismatchError struct {
	Library    string
	Viewer     string
	Suggestion string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("viewer protocol version mismatch: library %s, viewer %s. %s",
		e.Library, e.Viewer, e.Suggestion)
}

// Is matches ErrVersionMismatch.
func (e *VersionMismatchError) Is(target error) bool { return target == ErrVersionMismatch }

// CommandFailedError reports a command the viewer refused.
type CommandFailedError struct {
	Seq     uint64
	Message string
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("viewer rejected command seq=%d: %s", e.Seq, e.Message)
}

// Is matches ErrCommandFailed.
func (e *CommandFailedError) Is(target error) bool { return target == ErrCommandFailed }

// CommandTimeoutError reports a command whose acknowledgement never
// arrived within the timeout.
type CommandTimeoutError struct {
	Seq     uint64
	Timeout time.Duration
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for response to command seq=%d", e.Timeout, e.Seq)
}

// Is matches ErrCommandTimeout.
func (e *CommandTimeoutError) Is(target error) bool { return target == ErrCommandTimeout }
