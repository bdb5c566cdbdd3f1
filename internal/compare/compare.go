// Package compare classifies the difference between a baseline mapping and a
// fresh scan. Classification is order-independent and all output lists are
// sorted by path so repeated runs over the same inputs render identically.
package compare

import (
	"fmt"
	"sort"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/varalys/fic/internal/types"
)

// Change is a path whose digest differs between baseline and current scan.
type Change struct {
	Path string `json:"path"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Result is the classification of every path in baseline ∪ current.
// Paths present in both with equal digests are only counted in Unchanged.
type Result struct {
	Modified []Change `json:"modified"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	// Unreadable lists baseline paths that exist but could not be hashed in
	// the current scan. They are never reported as removed.
	Unreadable []string `json:"unreadable"`
	Unchanged  int      `json:"unchanged"`

	BaselineCount int `json:"baseline_files"`
	CurrentCount  int `json:"current_files"`
}

// Compare classifies current against baseline. Neither input is modified.
func Compare(baseline, current types.Entries) Result {
	return CompareScan(baseline, current, nil)
}

// CompareScan is Compare with knowledge of the files the current scan had to
// skip. A baseline path missing from current that is covered by a skip is
// classified as unreadable rather than removed.
func CompareScan(baseline, current types.Entries, skipped []types.Skip) Result {
	res := Result{
		Modified:      []Change{},
		Added:         []string{},
		Removed:       []string{},
		Unreadable:    []string{},
		BaselineCount: len(baseline),
		CurrentCount:  len(current),
	}
	for p, sum := range current {
		old, ok := baseline[p]
		switch {
		case !ok:
			res.Added = append(res.Added, p)
		case old != sum:
			res.Modified = append(res.Modified, Change{Path: p, Old: old, New: sum})
		default:
			res.Unchanged++
		}
	}
	for p := range baseline {
		if _, ok := current[p]; ok {
			continue
		}
		if covered(p, skipped) {
			res.Unreadable = append(res.Unreadable, p)
			continue
		}
		res.Removed = append(res.Removed, p)
	}
	sort.Slice(res.Modified, func(i, j int) bool { return res.Modified[i].Path < res.Modified[j].Path })
	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Unreadable)
	return res
}

func covered(path string, skipped []types.Skip) bool {
	for _, s := range skipped {
		if s.Covers(path) {
			return true
		}
	}
	return false
}

// HasChanges reports whether any path was modified, added or removed.
func (r Result) HasChanges() bool {
	return len(r.Modified) > 0 || len(r.Added) > 0 || len(r.Removed) > 0
}

// Clean reports whether every baseline path was verified unchanged and no
// new paths appeared.
func (r Result) Clean() bool {
	return !r.HasChanges() && len(r.Unreadable) == 0
}

// ModifiedPaths returns the paths of Modified in order.
func (r Result) ModifiedPaths() []string {
	out := make([]string, len(r.Modified))
	for i, c := range r.Modified {
		out[i] = c.Path
	}
	return out
}

// Fingerprint returns a short stable identifier of the classification. Two
// results with identical lists have identical fingerprints.
func (r Result) Fingerprint() string {
	d := xxhash.New()
	for _, c := range r.Modified {
		_, _ = d.WriteString("M\x00" + c.Path + "\x00" + c.Old + "\x00" + c.New + "\n")
	}
	for _, p := range r.Added {
		_, _ = d.WriteString("A\x00" + p + "\n")
	}
	for _, p := range r.Removed {
		_, _ = d.WriteString("R\x00" + p + "\n")
	}
	for _, p := range r.Unreadable {
		_, _ = d.WriteString("U\x00" + p + "\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
