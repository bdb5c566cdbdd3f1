// Package baseline persists scan results as the trusted reference snapshot
// for later integrity checks. A Store owns exactly one baseline file.
package baseline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/varalys/fic/internal/files"
	"github.com/varalys/fic/internal/types"
)

// TimeLayout is the layout of the persisted timestamp field.
const TimeLayout = "2006-01-02 15:04:05"

// DefaultFileName is the baseline file name used when no path is configured.
const DefaultFileName = "baseline.json"

// ErrNotFound is returned by Load when no baseline has been saved yet.
var ErrNotFound = errors.New("baseline not found")

// CorruptError reports a baseline file that exists but cannot be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("baseline %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// WriteError reports a failed save. The previous baseline, if any, is intact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write baseline %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Baseline is a persisted snapshot of a scan.
type Baseline struct {
	CreatedAt time.Time
	// RootPath is the absolute directory scanned at creation time. It is
	// informational and never used when comparing.
	RootPath string
	// FileCount is stored alongside the entries for display. It is not
	// checked against len(Entries).
	FileCount int
	Entries   types.Entries
}

// Timestamp renders CreatedAt in the persisted layout.
func (b Baseline) Timestamp() string {
	return b.CreatedAt.Format(TimeLayout)
}

// record is the on-disk shape. Pointer fields detect missing keys.
type record struct {
	Timestamp *string       `json:"timestamp"`
	Directory *string       `json:"directory"`
	FileCount *int          `json:"file_count"`
	Hashes    types.Entries `json:"hashes"`
}

// Store reads and writes the baseline at a fixed path chosen at construction.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a Store bound to path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// DefaultPath returns DefaultFileName located next to the running executable.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName), nil
}

// Path returns the file the store is bound to.
func (s *Store) Path() string { return s.path }

// Exists reports whether a baseline file is present.
func (s *Store) Exists() bool {
	st, err := os.Stat(s.path)
	return err == nil && st.Mode().IsRegular()
}

// Save records entries as the new baseline for root, replacing any previous
// baseline wholesale. The write is atomic: on failure the old file remains.
func (s *Store) Save(entries types.Entries, root string) (Baseline, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	if entries == nil {
		entries = types.Entries{}
	}
	b := Baseline{
		CreatedAt: s.now().Truncate(time.Second),
		RootPath:  abs,
		FileCount: len(entries),
		Entries:   entries,
	}
	ts := b.Timestamp()
	rec := record{Timestamp: &ts, Directory: &b.RootPath, FileCount: &b.FileCount, Hashes: entries}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return Baseline{}, &WriteError{Path: s.path, Err: err}
	}
	if err := files.WriteFileAtomic(s.path, buf.Bytes(), 0o644); err != nil {
		return Baseline{}, &WriteError{Path: s.path, Err: err}
	}
	return b, nil
}

// Load reads the baseline. It returns an error wrapping ErrNotFound when no
// baseline exists and a *CorruptError when the content cannot be decoded or
// lacks a required field.
func (s *Store) Load() (Baseline, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Baseline{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("read baseline: %w", err)
	}
	return decode(s.path, data)
}

func decode(path string, data []byte) (Baseline, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Baseline{}, &CorruptError{Path: path, Err: err}
	}
	switch {
	case rec.Timestamp == nil:
		return Baseline{}, &CorruptError{Path: path, Err: errors.New(`missing field "timestamp"`)}
	case rec.Directory == nil:
		return Baseline{}, &CorruptError{Path: path, Err: errors.New(`missing field "directory"`)}
	case rec.FileCount == nil:
		return Baseline{}, &CorruptError{Path: path, Err: errors.New(`missing field "file_count"`)}
	case rec.Hashes == nil:
		return Baseline{}, &CorruptError{Path: path, Err: errors.New(`missing field "hashes"`)}
	}
	created, err := parseTimestamp(*rec.Timestamp)
	if err != nil {
		return Baseline{}, &CorruptError{Path: path, Err: err}
	}
	return Baseline{
		CreatedAt: created,
		RootPath:  *rec.Directory,
		FileCount: *rec.FileCount,
		Entries:   rec.Hashes,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}
