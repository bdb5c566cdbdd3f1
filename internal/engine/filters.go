package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Predicate reports whether a directory entry should be excluded. It is
// evaluated on the entry's base name during traversal; excluded directories
// are never descended into.
type Predicate func(name string, isDir bool) bool

// hiddenPrefix marks hidden files and directories.
const hiddenPrefix = "."

// build and cache artifact directories that are never monitored
var defaultExcludeDirs = map[string]bool{
	"__pycache__":   true,
	"node_modules":  true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".gradle":       true,
}

// DefaultExcludedDirs returns the names of the built-in directory denylist.
func DefaultExcludedDirs() []string {
	out := make([]string, 0, len(defaultExcludeDirs))
	for name := range defaultExcludeDirs {
		out = append(out, name)
	}
	return out
}

// DefaultPredicate excludes hidden entries and denylisted directories.
func DefaultPredicate(name string, isDir bool) bool {
	if isHidden(name) {
		return true
	}
	return isDir && defaultExcludeDirs[name]
}

// SkipsDir reports whether a scan with cfg prunes the directory name found at
// the forward-slash relative path rel.
func (cfg Config) SkipsDir(name, rel string) bool {
	return predicateFor(cfg)(name, true) || excludedDirByGlobs(rel, cfg) || cfg.Ignore.MatchDir(rel)
}

// SkipsFile reports whether a scan with cfg ignores the file name at rel.
func (cfg Config) SkipsFile(name, rel string) bool {
	return predicateFor(cfg)(name, false) || !allowedByGlobs(rel, cfg) || cfg.Ignore.Match(rel)
}

// predicateFor resolves the exclusion policy for cfg.
func predicateFor(cfg Config) Predicate {
	if cfg.Exclude != nil {
		return cfg.Exclude
	}
	return func(name string, isDir bool) bool {
		if !cfg.IncludeHidden && isHidden(name) {
			return true
		}
		return isDir && !cfg.NoDefaultExcludes && defaultExcludeDirs[name]
	}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, hiddenPrefix) && name != "." && name != ".."
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last. Matching uses forward-slash
// semantics.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

// excludedDirByGlobs reports whether a directory matches an exclude glob and
// can be pruned. Include globs never prune directories since a nested file
// may still match.
func excludedDirByGlobs(relPath string, cfg Config) bool {
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	return len(excludes) > 0 && matchAnyGlob(filepath.ToSlash(relPath), excludes)
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	base := pathToMatch
	if i := strings.LastIndex(pathToMatch, "/"); i >= 0 {
		base = pathToMatch[i+1:]
	}
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
