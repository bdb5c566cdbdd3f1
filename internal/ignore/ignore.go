// Package ignore reads .ficignore files: one gitignore-style pattern per
// line, matched against forward-slash paths relative to the scan root.
//
// A pattern without a slash matches the base name at any depth. A pattern
// containing a slash is anchored to the root. A trailing slash restricts
// the pattern to directories, and everything below a matched directory is
// ignored too. A leading "!" re-includes a path matched by an earlier
// pattern. Blank lines and lines starting with "#" are skipped.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the default ignore file name.
const FileName = ".ficignore"

type rule struct {
	pattern  string
	dirOnly  bool
	anchored bool
	negate   bool
}

// Matcher holds the parsed rules of one ignore file. A nil Matcher matches
// nothing.
type Matcher struct {
	rules []rule
}

// Load parses the ignore file at p.
func Load(p string) (*Matcher, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}

// Parse reads patterns from r.
func Parse(r io.Reader) (*Matcher, error) {
	m := &Matcher{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		var ru rule
		if strings.HasPrefix(s, "!") {
			ru.negate = true
			s = s[1:]
		}
		if strings.HasSuffix(s, "/") {
			ru.dirOnly = true
			s = strings.TrimRight(s, "/")
		}
		if strings.HasPrefix(s, "/") {
			ru.anchored = true
			s = strings.TrimLeft(s, "/")
		}
		if strings.Contains(s, "/") {
			ru.anchored = true
		}
		if s == "" {
			continue
		}
		if !doublestar.ValidatePattern(s) {
			return nil, fmt.Errorf("line %d: invalid pattern %q", line, s)
		}
		ru.pattern = s
		m.rules = append(m.rules, ru)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match reports whether the file at rel is ignored, either directly or
// because one of its parent directories is.
func (m *Matcher) Match(rel string) bool {
	if m.Len() == 0 {
		return false
	}
	rel = strings.Trim(rel, "/")
	for i := 0; i < len(rel); i++ {
		if rel[i] == '/' && m.decide(rel[:i], true) {
			return true
		}
	}
	return m.decide(rel, false)
}

// MatchDir reports whether the directory at rel is ignored.
func (m *Matcher) MatchDir(rel string) bool {
	if m.Len() == 0 {
		return false
	}
	return m.decide(strings.Trim(rel, "/"), true)
}

// decide applies the rules in order; the last matching rule wins.
func (m *Matcher) decide(rel string, isDir bool) bool {
	ignored := false
	base := path.Base(rel)
	for _, ru := range m.rules {
		if ru.dirOnly && !isDir {
			continue
		}
		target := base
		if ru.anchored {
			target = rel
		}
		if ok, _ := doublestar.Match(ru.pattern, target); ok {
			ignored = !ru.negate
		}
	}
	return ignored
}
