package engine

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/varalys/fic/internal/types"
)

// Walk traverses the tree under cfg.Root and invokes handle for each eligible
// regular file with its absolute path and forward-slash relative path.
// Directories that cannot be read are reported as skips rather than aborting
// the walk. Walk stops early with ctx.Err() when ctx is done.
func Walk(ctx context.Context, cfg Config, handle func(abs, rel string)) ([]types.Skip, error) {
	exclude := predicateFor(cfg)
	var skips []types.Skip
	err := fs.WalkDir(cfg.fsys(), ".", func(rel string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if rel == "." {
			return err
		}
		if err != nil {
			// an unreadable directory hides everything below it
			skips = append(skips, types.Skip{Path: rel, Reason: err.Error(), Dir: d != nil && d.IsDir()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if exclude(d.Name(), true) || excludedDirByGlobs(rel, cfg) || cfg.Ignore.MatchDir(rel) {
				return fs.SkipDir
			}
			return nil
		}
		// symlinks, sockets and devices are not tracked
		if !d.Type().IsRegular() {
			return nil
		}
		if exclude(d.Name(), false) {
			return nil
		}
		if !allowedByGlobs(rel, cfg) || cfg.Ignore.Match(rel) {
			return nil
		}
		handle(filepath.Join(cfg.Root, filepath.FromSlash(rel)), rel)
		return nil
	})
	return skips, err
}

// CountTargets returns the number of files a scan with cfg would hash.
// The root is validated the same way Scan validates it.
func CountTargets(ctx context.Context, cfg Config) (int, error) {
	abs, err := resolveRoot(cfg.Root)
	if err != nil {
		return 0, err
	}
	cfg.Root = abs
	cfg, _ = cfg.WithIgnoreFile()
	n := 0
	_, err = Walk(ctx, cfg, func(string, string) { n++ })
	return n, err
}
