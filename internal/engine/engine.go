package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/varalys/fic/internal/digest"
	"github.com/varalys/fic/internal/ignore"
	"github.com/varalys/fic/internal/logging"
	"github.com/varalys/fic/internal/types"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDirectoryNotFound is returned when the scan root does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrNotADirectory is returned when the scan root is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	Threads      int

	// NoDefaultExcludes disables the built-in cache directory denylist.
	NoDefaultExcludes bool
	// IncludeHidden keeps entries whose names start with a dot.
	IncludeHidden bool
	// Exclude replaces the built-in exclusion policy when non-nil.
	Exclude Predicate
	// Ignore holds ignore patterns. When nil, Scan loads them from
	// IgnoreFile. The scanned tree itself is never consulted, so files
	// under Root cannot change what a scan covers.
	Ignore     *ignore.Matcher
	IgnoreFile string

	// FS is read instead of the directory at Root when set. Names are
	// relative to Root.
	FS fs.FS

	// Progress is called after each file is processed. Calls are serialized.
	Progress func(done, total int)
	Logger   *slog.Logger
}

// Result contains the scanned mapping and basic scan statistics.
type Result struct {
	// Root is the absolute scan root.
	Root     string
	Entries  types.Entries
	Skipped  []types.Skip
	Duration time.Duration
}

// FilesScanned returns the number of files successfully hashed.
func (r Result) FilesScanned() int { return len(r.Entries) }

type target struct {
	abs, rel string
}

type outcome struct {
	sum string
	err error
}

// Scan walks cfg.Root and hashes every eligible file. When the root is missing
// or not a directory it returns an empty result together with
// ErrDirectoryNotFound or ErrNotADirectory. Per-file read failures never
// abort the scan; they are collected in Result.Skipped. If ctx is canceled the
// scan stops between files and returns ctx.Err() with an empty result.
func Scan(ctx context.Context, cfg Config) (Result, error) {
	started := time.Now()
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "scanner")

	abs, err := resolveRoot(cfg.Root)
	if err != nil {
		return emptyResult(abs), err
	}
	result := emptyResult(abs)
	cfg.Root = abs
	if cfg, err = cfg.WithIgnoreFile(); err != nil {
		log.Warn("cannot read ignore file", "path", cfg.IgnoreFile, "error", err)
	} else if n := cfg.Ignore.Len(); n > 0 {
		log.Debug("ignore file loaded", "path", cfg.IgnoreFile, "patterns", n)
	}

	log.Info("scanning directory", "root", abs)
	var targets []target
	skips, err := Walk(ctx, cfg, func(p, rel string) {
		targets = append(targets, target{abs: p, rel: rel})
	})
	if err != nil {
		return emptyResult(abs), err
	}

	outcomes, err := hashAll(ctx, cfg, targets)
	if err != nil {
		return emptyResult(abs), err
	}

	// single owner builds the mapping once all workers are done
	for i, t := range targets {
		o := outcomes[i]
		if o.err != nil {
			log.Warn("cannot read file", "path", t.rel, "error", o.err)
			skips = append(skips, types.Skip{Path: t.rel, Reason: o.err.Error()})
			continue
		}
		result.Entries[t.rel] = o.sum
	}
	sort.Slice(skips, func(i, j int) bool { return skips[i].Path < skips[j].Path })
	result.Skipped = skips
	result.Duration = time.Since(started)
	log.Info("scan complete", "files", result.FilesScanned(), "skipped", len(skips), "duration", result.Duration)
	return result, nil
}

func hashAll(ctx context.Context, cfg Config, targets []target) ([]outcome, error) {
	outcomes := make([]outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(cfg.Threads))

	var mu sync.Mutex
	done := 0
	for i, t := range targets {
		if gctx.Err() != nil {
			break
		}
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := hashTarget(cfg, t)
			outcomes[i] = outcome{sum: sum, err: err}
			if cfg.Progress != nil {
				mu.Lock()
				done++
				cfg.Progress(done, len(targets))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func hashTarget(cfg Config, t target) (string, error) {
	if cfg.FS == nil {
		return digest.File(t.abs)
	}
	f, err := cfg.FS.Open(t.rel)
	if err != nil {
		return "", &digest.ReadError{Path: t.abs, Err: err}
	}
	defer f.Close()
	sum, err := digest.Reader(f)
	if err != nil {
		return "", &digest.ReadError{Path: t.abs, Err: err}
	}
	return sum, nil
}

func workerCount(threads int) int {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > 64 {
		threads = 64
	}
	return threads
}

func emptyResult(root string) Result {
	return Result{Root: root, Entries: types.Entries{}}
}

// resolveRoot makes root absolute and checks that it is an existing
// directory.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return root, fmt.Errorf("resolve %s: %w", root, err)
	}
	st, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return abs, fmt.Errorf("%w: %s", ErrDirectoryNotFound, abs)
	case err != nil:
		return abs, fmt.Errorf("stat %s: %w", abs, err)
	case !st.IsDir():
		return abs, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}
	return abs, nil
}

// WithIgnoreFile returns cfg with Ignore loaded from cfg.IgnoreFile. An
// empty or missing IgnoreFile ignores nothing. On a read or parse error the
// returned Config ignores nothing.
func (cfg Config) WithIgnoreFile() (Config, error) {
	if cfg.Ignore != nil || cfg.IgnoreFile == "" {
		return cfg, nil
	}
	m, err := ignore.Load(cfg.IgnoreFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return cfg, err
	}
	cfg.Ignore = m
	return cfg, nil
}

// fsys returns the file system a scan of cfg reads.
func (cfg Config) fsys() fs.FS {
	if cfg.FS != nil {
		return cfg.FS
	}
	return os.DirFS(cfg.Root)
}
