// Package audit keeps an append-only JSONL history of integrity checks.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/varalys/fic/internal/compare"
)

// Record summarizes one integrity check.
type Record struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	Root         string    `json:"root"`
	BaselineFile string    `json:"baseline_file,omitempty"`
	BaselineTime string    `json:"baseline_time,omitempty"`
	BaselineN    int       `json:"baseline_files"`
	CurrentN     int       `json:"current_files"`
	Modified     int       `json:"modified"`
	Added        int       `json:"added"`
	Removed      int       `json:"removed"`
	Unreadable   int       `json:"unreadable"`
	Clean        bool      `json:"clean"`
	Fingerprint  string    `json:"fingerprint"`
	Duration     string    `json:"duration"`
}

// maxLineBytes bounds one record line.
const maxLineBytes = 1 << 20

// Log appends Records to a file.
type Log struct {
	path string
}

// NewLog returns a Log writing to path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// LoadHistory returns all records, newest first. Undecodable lines are skipped.
func (l *Log) LoadHistory() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Append writes record as one JSON line, assigning a RunID if empty.
func (l *Log) Append(record Record) error {
	if record.RunID == "" {
		record.RunID = uuid.NewString()
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// NewRecord builds a Record from a comparison.
func NewRecord(root, baselineFile, baselineTime string, res compare.Result, duration time.Duration) Record {
	return Record{
		Timestamp:    time.Now(),
		RunID:        uuid.NewString(),
		Root:         root,
		BaselineFile: baselineFile,
		BaselineTime: baselineTime,
		BaselineN:    res.BaselineCount,
		CurrentN:     res.CurrentCount,
		Modified:     len(res.Modified),
		Added:        len(res.Added),
		Removed:      len(res.Removed),
		Unreadable:   len(res.Unreadable),
		Clean:        res.Clean(),
		Fingerprint:  res.Fingerprint(),
		Duration:     duration.String(),
	}
}
