// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checkpoint provides the append-only JSONL log that makes long
// scrape and classification runs crash-resumable. Each record is written
// and fsynced before the run moves on, so an interrupted run loses at
// most the in-flight item.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
)

// Log is an append-only record log backed by a JSONL file. It has
// exactly one writer for the duration of a run and is never read back
// by the run that writes it.
type Log struct {
	path string
	f    *os.File
}

// Open creates the log file if absent or appends to an existing one.
// An existing log is evidence of an interrupted run and is preserved,
// never truncated.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint log %s: %w", path, err)
	}
	return &Log{path: path, f: f}, nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append marshals v as a single JSON line, writes it, and flushes to
// stable storage before returning.
func (l *Log) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint record: %w", err)
	}
	if _, err := l.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending to %s: %w", l.path, err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", l.path, err)
	}
	return nil
}

// Close releases the file handle. The log file stays on disk.
func (l *Log) Close() error {
	return l.f.Close()
}

// Remove closes and deletes the log file. Call only after the final
// output that subsumes the log has been written successfully.
func (l *Log) Remove() error {
	if err := l.f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil {
		return fmt.Errorf("removing %s: %w", l.path, err)
	}
	return nil
}
