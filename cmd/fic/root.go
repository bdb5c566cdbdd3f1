package fic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/baseline"
	"github.com/varalys/fic/internal/engine"
	"github.com/varalys/fic/internal/report"
)

// Process exit codes.
const (
	exitOK          = 0
	exitChanges     = 1
	exitUsage       = 2
	exitDirectory   = 3
	exitNoBaseline  = 4
	exitCorrupt     = 5
	exitWriteFailed = 6
	exitInterrupted = 130
)

// errChangesDetected ends a check that found differences. It carries no
// message of its own; the report has already been printed.
var errChangesDetected = errors.New("changes detected")

var (
	flagBaseline          string
	flagConfig            string
	flagNoColor           bool
	flagLogLevel          string
	flagLogFormat         string
	flagLogFile           string
	flagQuiet             bool
	flagThreads           int
	flagInclude           string
	flagExclude           string
	flagNoDefaultExcludes bool
	flagHidden            bool
	flagIgnoreFile        string
	flagNoIgnoreFile      bool
	flagNoUpdateCheck     bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the fic CLI.
var rootCmd = &cobra.Command{
	Use:           "fic",
	Short:         "Detect file changes against a SHA-256 baseline",
	Long:          "fic records a SHA-256 digest of every file under a directory and later reports which files were modified, added or removed.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the fic CLI. It should be called by the main package.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errChangesDetected) {
			fmt.Fprintln(os.Stderr, "error:", report.Explain(err, activeBaseline))
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var corrupt *baseline.CorruptError
	var werr *baseline.WriteError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errChangesDetected):
		return exitChanges
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, engine.ErrDirectoryNotFound), errors.Is(err, engine.ErrNotADirectory):
		return exitDirectory
	case errors.Is(err, baseline.ErrNotFound):
		return exitNoBaseline
	case errors.As(err, &corrupt):
		return exitCorrupt
	case errors.As(err, &werr):
		return exitWriteFailed
	default:
		return exitUsage
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBaseline, "baseline", "", "baseline file (default: baseline.json next to the fic binary)")
	pf.StringVar(&flagConfig, "config", "", "config file (default: .fic.yml in the working directory, then ~/.config/fic/config.yml)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&flagLogFormat, "log-format", "", "log format: text|json")
	pf.StringVar(&flagLogFile, "log-file", "", "also write logs to this file (rotated)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress output")
	pf.IntVar(&flagThreads, "threads", 0, "hashing workers (0 = GOMAXPROCS)")
	pf.StringVar(&flagInclude, "include", "", "comma-separated include globs")
	pf.StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	pf.BoolVar(&flagNoDefaultExcludes, "no-default-excludes", false, "also scan cache directories such as __pycache__ and node_modules")
	pf.BoolVar(&flagHidden, "hidden", false, "also scan hidden files and directories")
	pf.StringVar(&flagIgnoreFile, "ignore-file", "", "ignore patterns file (default: .ficignore next to the baseline)")
	pf.BoolVar(&flagNoIgnoreFile, "no-ignore-file", false, "do not read any ignore file")
	pf.BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}
