package fic

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/varalys/fic/internal/baseline"
	"github.com/varalys/fic/internal/config"
	"github.com/varalys/fic/internal/engine"
	"github.com/varalys/fic/internal/ignore"
	"github.com/varalys/fic/internal/logging"
	"github.com/varalys/fic/internal/update"
	"github.com/varalys/fic/pkg/core"
)

// activeBaseline is the baseline path of the running command, kept for
// error messages printed after the command returns.
var activeBaseline string

// settings is the resolved configuration for one command invocation.
// Precedence is CLI flags, then the local config, then the global config.
type settings struct {
	local, global config.FileConfig
	merged        config.FileConfig

	logger     *slog.Logger
	closer     io.Closer
	noColor    bool
	baseline   string
	auditLog   string
	ignoreFile string
}

// loadSettings resolves configuration for a command that scans root, or for
// one that scans nothing when root is "". The local config is read from
// --config or the working directory, never from root. A local config that
// lives inside root keeps only its presentation keys.
func loadSettings(cmd *cobra.Command, root string) (*settings, error) {
	s := &settings{}
	var warnings [][]any
	warn := func(args ...any) { warnings = append(warnings, args) }

	if c, err := config.LoadGlobal(); err == nil {
		s.global = c
	} else if !errors.Is(err, os.ErrNotExist) {
		warn("ignoring unreadable global config", "path", config.GlobalPath(), "error", err)
	}
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		s.local = c
	} else if cwd, err := os.Getwd(); err == nil {
		if p := config.FindLocal(cwd); p != "" {
			c, err := config.LoadFile(p)
			switch {
			case err != nil:
				warn("ignoring unreadable local config", "path", p, "error", err)
			case root != "" && within(root, p) && c.HasScanPolicy():
				warn("local config is inside the scanned directory; ignoring its baseline, audit and filter settings", "path", p)
				s.local = c.WithoutScanPolicy()
			default:
				s.local = c
			}
		}
	}
	s.merged = s.local.Merge(s.global)

	logCfg := s.merged.Logging()
	if flagLogLevel != "" {
		logCfg.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		logCfg.Format = flagLogFormat
	}
	if flagLogFile != "" {
		logCfg.FilePath = flagLogFile
	}
	if err := logCfg.Validate(); err != nil {
		return nil, err
	}
	s.logger, s.closer = logging.New(logCfg, cmd.ErrOrStderr())
	for _, args := range warnings {
		s.logger.Warn(args[0].(string), args[1:]...)
	}

	s.noColor = pickBool(flagNoColor, s.local.NoColor, s.global.NoColor) ||
		os.Getenv("NO_COLOR") != "" ||
		!isTerminal(cmd.OutOrStdout())

	s.baseline = pickString(flagBaseline, s.local.Baseline, s.global.Baseline)
	if s.baseline == "" {
		p, err := baseline.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locate default baseline: %w", err)
		}
		s.baseline = p
	}
	activeBaseline = s.baseline
	s.auditLog = pickString("", s.local.AuditLog, s.global.AuditLog)

	if err := s.resolveIgnoreFile(root); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveIgnoreFile picks the ignore file: --ignore-file, then the config
// key, then ignore.FileName next to the baseline. An explicitly named file
// must exist. A file inside root is never used.
func (s *settings) resolveIgnoreFile(root string) error {
	if flagNoIgnoreFile {
		return nil
	}
	p := pickString(flagIgnoreFile, s.local.IgnoreFile, s.global.IgnoreFile)
	if p != "" {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("ignore file: %w", err)
		}
	} else {
		p = filepath.Join(filepath.Dir(s.baseline), ignore.FileName)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("ignore file: %w", err)
	}
	if root != "" && within(root, abs) {
		s.logger.Warn("ignore file is inside the scanned directory; not using it", "path", abs)
		return nil
	}
	s.ignoreFile = abs
	return nil
}

// within reports whether p lies at or below dir. Both are compared after
// resolving symlinks where possible.
func within(dir, p string) bool {
	if r, err := filepath.EvalSymlinks(dir); err == nil {
		dir = r
	}
	if r, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
		p = filepath.Join(r, filepath.Base(p))
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Close flushes the log file, if any.
func (s *settings) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

// scanConfig builds the engine configuration for root.
func (s *settings) scanConfig(root string) engine.Config {
	noDefaults := flagNoDefaultExcludes
	if !noDefaults && s.merged.DefaultExcludes != nil {
		noDefaults = !*s.merged.DefaultExcludes
	}
	return engine.Config{
		Root:              root,
		IncludeGlobs:      pickString(flagInclude, s.local.Include, s.global.Include),
		ExcludeGlobs:      pickString(flagExclude, s.local.Exclude, s.global.Exclude),
		Threads:           pickInt(flagThreads, s.local.Threads, s.global.Threads),
		NoDefaultExcludes: noDefaults,
		IncludeHidden:     pickBool(flagHidden, s.local.Hidden, s.global.Hidden),
		IgnoreFile:        s.ignoreFile,
		Logger:            s.logger,
	}
}

// checker builds a core.Checker. When showProgress is set a counter is
// drawn on w while files are hashed.
func (s *settings) checker(root string, w io.Writer, showProgress bool) *core.Checker {
	scan := s.scanConfig(root)
	if showProgress {
		scan.Progress = progressPrinter(w)
	}
	return core.New(core.Options{BaselinePath: s.baseline, Scan: scan, Logger: s.logger})
}

// progressPrinter draws "[done/total] pct%" on one line and ends it once
// the last file is hashed.
func progressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		if total == 0 {
			return
		}
		if done%10 == 0 || done == total {
			pct := float64(done) / float64(total) * 100
			_, _ = fmt.Fprintf(w, "\r[%d/%d] %.0f%%", done, total, pct)
		}
		if done == total {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// wantProgress reports whether progress should be drawn on w.
func wantProgress(w io.Writer) bool {
	return !flagQuiet && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// dirArg returns the absolute form of the optional DIR argument.
func dirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	return filepath.Abs(dir)
}

func notifyUpdate(w io.Writer) {
	if flagNoUpdateCheck {
		return
	}
	if latest, newer, _ := update.Check(version, false); newer && latest != "" {
		_, _ = fmt.Fprintf(w, "(new version available: v%s)  run 'fic update' to upgrade\n", latest)
	}
}

func currentVersion() semver.Version {
	v := version
	// Use build info if tag overridden at build-time
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return ver
}

func selfUpdate() (string, error) {
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(currentVersion().String()), update.Slug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}
