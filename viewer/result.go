package viewer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmg049/htmlview/log"
	"github.com/jmg049/htmlview/types"
)

// readResultFile reads and validates the result artifact, tolerating the
// race between viewer exit and the artifact being fully flushed to disk.
//
// Only "file not yet readable" is retried. A file that reads but fails to
// parse is corrupt, not late, and fails immediately; so does an identity
// mismatch or an incompatible version.
func readResultFile(path, expectedID string, logger *log.Logger) (*types.ViewerExitStatus, error) {
	var lastErr error

	for attempt := 0; attempt < resultReadAttempts; attempt++ {
		data, err := os.ReadFile(path)
		if err == nil {
			return parseResult(data, path, expectedID)
		}
		lastErr = err

		if attempt < resultReadAttempts-1 {
			delay := resultBackoff.delay(attempt)
			logger.Debug("result artifact not ready, backing off", map[string]any{
				"attempt": attempt + 1,
				"delay":   delay.String(),
			})
			time.Sleep(delay)
		}
	}

	return nil, &ResultReadError{Path: path, Attempts: resultReadAttempts, Err: lastErr}
}

func parseResult(data []byte, path, expectedID string) (*types.ViewerExitStatus, error) {
	var status types.ViewerExitStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, newError(ErrInvalidResponse, "parse-result", path,
			fmt.Sprintf("unparseable result artifact (first %d bytes: %q)", len(preview(data)), preview(data)), err)
	}

	if status.ID != expectedID {
		return nil, newError(ErrInvalidResponse, "verify-result", path,
			fmt.Sprintf("result id mismatch: expected %s, got %s", expectedID, status.ID), nil)
	}

	if err := checkVersionCompatibility(types.ProtocolVersion, status.ViewerVersion); err != nil {
		return nil, err
	}

	return &status, nil
}

// preview truncates artifact content for error messages.
func preview(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max])
	}
	return string(data)
}
