// Package watch re-runs full integrity checks when files under a root change.
// Every run is a complete rescan; events only decide when to run.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/varalys/fic/internal/engine"
	"github.com/varalys/fic/internal/logging"
)

// DefaultDebounce is the quiet period after the last event before a run.
const DefaultDebounce = 2 * time.Second

// Watcher triggers a callback after filesystem activity settles.
type Watcher struct {
	cfg      engine.Config
	debounce time.Duration
	logger   *slog.Logger
	ready    chan struct{}
}

// New returns a Watcher for cfg.Root using cfg's exclusion rules.
func New(cfg engine.Config, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Watcher{
		cfg:      cfg,
		debounce: debounce,
		logger:   logger.With("component", "watcher"),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the initial watches are registered.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run blocks until ctx is canceled, calling onChange after each burst of
// relevant events. Errors from onChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close() //nolint:errcheck

	root, err := filepath.Abs(w.cfg.Root)
	if err != nil {
		return err
	}
	w.cfg.Root = root
	if w.cfg, err = w.cfg.WithIgnoreFile(); err != nil {
		w.logger.Warn("cannot read ignore file", "error", err)
	}
	if err := w.addTree(fw, root); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info("watching", "root", root)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fw, ev) {
				continue
			}
			w.logger.Debug("change observed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("check failed", "error", err)
			}
		}
	}
}

// relevant filters events to paths a scan would look at and registers
// watches for newly created directories.
func (w *Watcher) relevant(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.cfg.Root, ev.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	name := filepath.Base(ev.Name)
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if w.cfg.SkipsDir(name, rel) {
				return false
			}
			if err := w.addTree(fw, ev.Name); err != nil {
				w.logger.Warn("cannot watch directory", "path", rel, "error", err)
			}
			return true
		}
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		// the entry is gone, so it may have been either kind
		return !w.cfg.SkipsFile(name, rel) || !w.cfg.SkipsDir(name, rel)
	}
	return !w.cfg.SkipsFile(name, rel)
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.cfg.Root {
			rel, _ := filepath.Rel(w.cfg.Root, p)
			if w.cfg.SkipsDir(d.Name(), filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		if err := fw.Add(p); err != nil {
			w.logger.Warn("cannot watch directory", "path", p, "error", err)
		}
		return nil
	})
}
