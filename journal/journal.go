// Package journal persists one record per viewer session under a local
// journal directory, powering the history and inspect commands. Records
// are msgpack-encoded, one file per session.
package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const recordExt = ".msgpack"

// Lookup failures. ErrAmbiguousID means the given prefix matched more
// than one session.
var (
	ErrNotFound    = errors.New("journal: session not found")
	ErrAmbiguousID = errors.New("journal: session id prefix is ambiguous")
)

// Record is the stored outcome of a single viewer session.
type Record struct {
	ID            string    `json:"id" msgpack:"id"`
	Started       time.Time `json:"started" msgpack:"started"`
	Ended         time.Time `json:"ended" msgpack:"ended"`
	ContentType   string    `json:"content_type" msgpack:"content_type"`
	Target        string    `json:"target" msgpack:"target"`
	Reason        string    `json:"reason" msgpack:"reason"`
	Message       string    `json:"message,omitempty" msgpack:"message,omitempty"`
	ViewerVersion string    `json:"viewer_version" msgpack:"viewer_version"`
	DurationMs    int64     `json:"duration_ms" msgpack:"duration_ms"`
	RefreshCount  int       `json:"refresh_count" msgpack:"refresh_count"`
}

// Journal is a directory of session records.
type Journal struct {
	dir string
}

// DefaultDir returns the per-user journal location.
func DefaultDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("journal: resolve cache dir: %w", err)
	}
	return filepath.Join(cache, "htmlview", "journal"), nil
}

// Open opens the journal at dir, creating the directory if needed.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("journal: create %s: %w", dir, err)
	}
	return &Journal{dir: dir}, nil
}

// Dir returns the journal directory.
func (j *Journal) Dir() string { return j.dir }

// Append stores a session record. The record file is named after the
// session id, so appending the same session twice overwrites it.
func (j *Journal) Append(rec Record) error {
	if rec.ID == "" {
		return errors.New("journal: record has no session id")
	}
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("journal: encode record %s: %w", rec.ID, err)
	}
	path := filepath.Join(j.dir, rec.ID+recordExt)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("journal: write record %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all readable records, most recent first. Corrupt or
// foreign files in the journal directory are skipped rather than failing
// the whole listing.
func (j *Journal) List() ([]Record, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, fmt.Errorf("journal: read %s: %w", j.dir, err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(j.dir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := msgpack.Unmarshal(data, &rec); err != nil || rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, k int) bool {
		return records[i].Started.After(records[k].Started)
	})
	return records, nil
}

// Get resolves a full session id or a unique prefix to its record.
func (j *Journal) Get(idPrefix string) (*Record, error) {
	if idPrefix == "" {
		return nil, ErrNotFound
	}
	records, err := j.List()
	if err != nil {
		return nil, err
	}

	var match *Record
	for i := range records {
		if records[i].ID == idPrefix {
			return &records[i], nil
		}
		if strings.HasPrefix(records[i].ID, idPrefix) {
			if match != nil {
				return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, idPrefix)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, idPrefix)
	}
	return match, nil
}
