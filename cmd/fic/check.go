package fic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/audit"
	"github.com/varalys/fic/internal/report"
	"github.com/varalys/fic/internal/watch"
	"github.com/varalys/fic/pkg/core"
)

var (
	flagCheckJSON  bool
	flagCheckTable bool
	flagWatch      bool
	flagDebounce   time.Duration
)

func init() {
	cmd := &cobra.Command{
		Use:   "check [DIR]",
		Short: "Compare DIR against the baseline",
		Long:  "Scan DIR (default: current directory) and report files that were modified, added, removed or could not be read since the baseline was taken. Exits 1 when anything differs.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().BoolVar(&flagCheckJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&flagCheckTable, "table", false, "output changed paths as a table")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "keep running and re-check after files change")
	cmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "quiet period before a watch re-check")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if flagCheckJSON && flagCheckTable {
		return errors.New("--json and --table are mutually exclusive")
	}
	dir, err := dirArg(args)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}
	defer s.Close()

	errOut := cmd.ErrOrStderr()
	if !flagCheckJSON {
		notifyUpdate(errOut)
	}
	checker := s.checker(dir, errOut, !flagCheckJSON && wantProgress(errOut))

	clean, err := checkOnce(cmd.Context(), cmd.OutOrStdout(), s, checker, dir)
	if err != nil {
		return err
	}
	if flagWatch {
		return watchLoop(cmd.Context(), cmd, s, checker, dir)
	}
	if !clean {
		return errChangesDetected
	}
	return nil
}

// checkOnce runs one full check, prints the report and appends to the audit
// log when one is configured. It reports whether the tree matched.
func checkOnce(ctx context.Context, out io.Writer, s *settings, checker *core.Checker, dir string) (bool, error) {
	res, err := checker.Check(ctx, dir)
	if err != nil {
		return false, err
	}
	opts := report.PrintOptions{
		NoColor:           s.noColor,
		Duration:          res.Scan.Duration,
		BaselineTimestamp: res.Baseline.Timestamp(),
		BaselineDirectory: res.Baseline.RootPath,
		Skipped:           len(res.Scan.Skipped),
	}
	switch {
	case flagCheckJSON:
		if err := report.WriteJSON(out, report.NewCheckDocument(res.Scan.Root, res.Comparison, res.Scan.Skipped, opts)); err != nil {
			return false, err
		}
	case flagCheckTable:
		if err := report.PrintTable(out, res.Comparison, opts); err != nil {
			return false, err
		}
	default:
		report.PrintText(out, res.Comparison, opts)
	}

	if s.auditLog != "" {
		rec := audit.NewRecord(res.Scan.Root, checker.BaselinePath(), res.Baseline.Timestamp(), res.Comparison, res.Scan.Duration)
		if err := audit.NewLog(s.auditLog).Append(rec); err != nil {
			s.logger.Warn("audit log append failed", "path", s.auditLog, "error", err)
		}
	}
	s.logger.Debug("check summary", "root", res.Scan.Root, "summary", report.Summary(res.Comparison))
	return res.Comparison.Clean(), nil
}

// watchLoop re-runs checkOnce after each burst of filesystem activity until
// the command is interrupted. Interrupting a watch is a normal exit.
func watchLoop(ctx context.Context, cmd *cobra.Command, s *settings, checker *core.Checker, dir string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	w := watch.New(s.scanConfig(dir), flagDebounce, s.logger)
	fmt.Fprintf(errOut, "Watching %s for changes (Ctrl+C to stop)...\n", dir)
	err := w.Run(ctx, func(ctx context.Context) error {
		fmt.Fprintf(errOut, "\nChange detected at %s, re-checking...\n", time.Now().Format(time.TimeOnly))
		_, err := checkOnce(ctx, out, s, checker, dir)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
