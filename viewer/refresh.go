package viewer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmg049/htmlview/types"
)

// Refresh replaces the displayed content in the running viewer and blocks
// until the viewer acknowledges the command, the viewer rejects it, or the
// command-response timeout elapses.
//
// The command file is written to a temporary name and atomically renamed
// into place, so the viewer never observes a partial command. Correlation
// relies solely on the sequence number: because both command and response
// files are overwritten in place, an arbitrarily late read may observe the
// acknowledgement of an earlier command, which is skipped rather than
// trusted.
//
// Commands are not ordered across overlapping calls; await each Refresh
// before issuing the next to get in-order application.
func (h *Handle) Refresh(content types.ViewerContent) error {
	if h.commandPath == "" {
		return newError(ErrRefreshNotSupported, "refresh", "",
			"session was opened without EnableRefresh", nil)
	}
	if h.exited() {
		return newError(ErrCommandFailed, "refresh", "",
			"viewer process has already exited", nil)
	}

	seq := h.seq.Add(1)
	command := types.ViewerCommand{Type: types.CommandRefresh, Seq: seq, Content: content}

	data, err := json.Marshal(&command)
	if err != nil {
		return newError(ErrEncodeRequest, "encode-command", "", "", err)
	}

	tmpPath := filepath.Join(h.guard.Path(), fmt.Sprintf(".command-%d.tmp", seq))
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return newError(ErrConfigWrite, "write-command", tmpPath, "", err)
	}
	if err := os.Rename(tmpPath, h.commandPath); err != nil {
		return newError(ErrConfigWrite, "publish-command", h.commandPath, "", err)
	}

	h.logger.Debug("command published", map[string]any{"seq": seq})
	return h.awaitCommandResponse(seq)
}

// awaitCommandResponse polls the response artifact until an
// acknowledgement bearing seq arrives or the timeout elapses. Responses
// with any other sequence number are stale and ignored; unreadable or
// unparseable content is treated as not-yet-written (the viewer may be
// mid-write) and retried within the same budget.
func (h *Handle) awaitCommandResponse(seq uint64) error {
	deadline := time.Now().Add(h.responseTimeout)

	for attempt := 0; ; attempt++ {
		if data, err := os.ReadFile(h.responsePath); err == nil {
			var resp types.ViewerCommandResponse
			if jsonErr := json.Unmarshal(data, &resp); jsonErr == nil && resp.Seq == seq {
				if resp.Success {
					h.logger.Debug("command acknowledged", map[string]any{"seq": seq})
					return nil
				}
				return &CommandFailedError{Seq: seq, Message: resp.Error}
			}
		}

		if time.Now().After(deadline) {
			return &CommandTimeoutError{Seq: seq, Timeout: h.responseTimeout}
		}
		time.Sleep(commandBackoff.delay(attempt))
	}
}
