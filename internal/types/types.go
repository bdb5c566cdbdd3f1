package types

import (
	"sort"
	"strings"
)

// Entries maps a root-relative, forward-slash path to the lowercase hex
// digest of the file's content. Comparisons over Entries use set semantics.
type Entries map[string]string

// Paths returns the keys of e in lexicographic order.
func (e Entries) Paths() []string {
	out := make([]string, 0, len(e))
	for p := range e {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Records returns e as a path-sorted list of FileRecords.
func (e Entries) Records() []FileRecord {
	out := make([]FileRecord, 0, len(e))
	for _, p := range e.Paths() {
		out = append(out, FileRecord{Path: p, Digest: e[p]})
	}
	return out
}

// FileRecord is one hashed file from a scan.
type FileRecord struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// Skip records a file that could not be hashed during a scan. Skipped files
// are absent from the scan's Entries.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	// Dir is set when a whole directory could not be read; every path
	// below it is unverifiable.
	Dir bool `json:"dir,omitempty"`
}

// Covers reports whether path is hidden from the scan by s.
func (s Skip) Covers(path string) bool {
	if path == s.Path {
		return true
	}
	return s.Dir && strings.HasPrefix(path, s.Path+"/")
}
