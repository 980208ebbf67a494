// Package tracker persists the time of the last translation run.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/at-ishikawa/l10nkit/internal/dictionary"
)

type record struct {
	LastRun *string `json:"lastRun"`
}

// Tracker is the JSON file {"lastRun": timestamp | null}.
type Tracker struct {
	path string
}

func New(path string) *Tracker {
	return &Tracker{path: path}
}

func (t *Tracker) Path() string {
	return t.path
}

// LastRun returns the time of the last run and whether there was one.
// A missing tracker is created empty; an unreadable one counts as empty.
func (t *Tracker) LastRun() (time.Time, bool, error) {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := t.write(record{}); err != nil {
			return time.Time{}, false, err
		}
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("os.ReadFile(%s) > %w", t.path, err)
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		slog.Default().Warn("ignoring an unreadable tracker", slog.String("path", t.path), slog.Any("error", err))
		return time.Time{}, false, nil
	}
	if r.LastRun == nil {
		return time.Time{}, false, nil
	}
	lastRun, err := time.Parse(time.RFC3339Nano, *r.LastRun)
	if err != nil {
		slog.Default().Warn("ignoring an invalid lastRun", slog.String("path", t.path), slog.String("lastRun", *r.LastRun))
		return time.Time{}, false, nil
	}
	return lastRun, true, nil
}

// Stamp records now as the last run.
func (t *Tracker) Stamp(now time.Time) error {
	stamp := now.UTC().Format(dictionary.TimestampLayout)
	return t.write(record{LastRun: &stamp})
}

func (t *Tracker) write(r record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", t.path, err)
	}
	return nil
}
