package core

import (
	"context"
	"log/slog"

	"github.com/varalys/fic/internal/baseline"
	"github.com/varalys/fic/internal/compare"
	"github.com/varalys/fic/internal/engine"
	"github.com/varalys/fic/internal/logging"
	"github.com/varalys/fic/internal/report"
	"github.com/varalys/fic/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config     = engine.Config
	ScanResult = engine.Result
	Entries    = types.Entries
	Skip       = types.Skip
	Baseline   = baseline.Baseline
	Comparison = compare.Result
	Change     = compare.Change
	Info       = report.Info
	Predicate  = engine.Predicate
)

// Errors callers are expected to distinguish with errors.Is / errors.As.
var (
	ErrDirectoryNotFound = engine.ErrDirectoryNotFound
	ErrNotADirectory     = engine.ErrNotADirectory
	ErrBaselineNotFound  = baseline.ErrNotFound
)

type (
	// BaselineCorruptError is returned when the stored baseline cannot be decoded.
	BaselineCorruptError = baseline.CorruptError
	// BaselineWriteError is returned when saving a baseline fails.
	BaselineWriteError = baseline.WriteError
)

// Checker runs baseline and check operations against one baseline file. The
// baseline location is fixed when the Checker is built.
type Checker struct {
	store *baseline.Store
	scan  Config
	log   *slog.Logger
}

// Options configures a Checker. Scan.Root is ignored; each call names its
// own directory.
type Options struct {
	BaselinePath string
	Scan         Config
	Logger       *slog.Logger
}

// New returns a Checker bound to opts.BaselinePath.
func New(opts Options) *Checker {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	scan := opts.Scan
	if scan.Logger == nil {
		scan.Logger = log
	}
	return &Checker{store: baseline.NewStore(opts.BaselinePath), scan: scan, log: log}
}

// BaselinePath returns the file the Checker reads and writes.
func (c *Checker) BaselinePath() string { return c.store.Path() }

// CreateResult is the outcome of CreateBaseline.
type CreateResult struct {
	Baseline Baseline
	Scan     ScanResult
}

// CreateBaseline scans dir and overwrites the stored baseline with the
// result. Nothing is written unless the scan completes.
func (c *Checker) CreateBaseline(ctx context.Context, dir string) (CreateResult, error) {
	res, err := c.Scan(ctx, dir)
	if err != nil {
		return CreateResult{Scan: res}, err
	}
	if len(res.Entries) == 0 {
		c.log.Warn("baseline has no files", "root", res.Root)
	}
	b, err := c.store.Save(res.Entries, res.Root)
	if err != nil {
		return CreateResult{Scan: res}, err
	}
	c.log.Info("baseline saved", "path", c.store.Path(), "files", b.FileCount)
	return CreateResult{Baseline: b, Scan: res}, nil
}

// CheckResult is the outcome of Check.
type CheckResult struct {
	Baseline   Baseline
	Scan       ScanResult
	Comparison Comparison
}

// Check loads the stored baseline, scans dir and classifies every path. The
// baseline is loaded first so a missing or corrupt baseline aborts before
// any scanning work.
func (c *Checker) Check(ctx context.Context, dir string) (CheckResult, error) {
	b, err := c.store.Load()
	if err != nil {
		return CheckResult{}, err
	}
	res, err := c.Scan(ctx, dir)
	if err != nil {
		return CheckResult{Baseline: b, Scan: res}, err
	}
	cmp := compare.CompareScan(b.Entries, res.Entries, res.Skipped)
	c.log.Info("check complete", "root", res.Root, "modified", len(cmp.Modified), "added", len(cmp.Added), "removed", len(cmp.Removed), "unreadable", len(cmp.Unreadable))
	return CheckResult{Baseline: b, Scan: res, Comparison: cmp}, nil
}

// Info returns the stored baseline's metadata without scanning.
func (c *Checker) Info() (Info, error) {
	b, err := c.store.Load()
	if err != nil {
		return Info{}, err
	}
	return Info{
		Path:      c.store.Path(),
		Timestamp: b.Timestamp(),
		Directory: b.RootPath,
		FileCount: b.FileCount,
	}, nil
}

// Scan walks dir with the Checker's scan settings without touching the
// baseline.
func (c *Checker) Scan(ctx context.Context, dir string) (ScanResult, error) {
	cfg := c.scan
	cfg.Root = dir
	return engine.Scan(ctx, cfg)
}

// Compare classifies current against baseline.
func Compare(baseline, current Entries) Comparison {
	return compare.Compare(baseline, current)
}
