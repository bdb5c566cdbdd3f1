package fic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/engine"
	"github.com/varalys/fic/internal/report"
)

var (
	flagCreateDryRun bool
	flagShowJSON     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the trusted baseline",
	}

	create := &cobra.Command{
		Use:   "create [DIR]",
		Short: "Hash every file under DIR and save it as the baseline",
		Long:  "Scan DIR (default: current directory) and overwrite the baseline with the result. The previous baseline is kept if the scan or the write fails.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBaselineCreate,
	}
	create.Flags().BoolVar(&flagCreateDryRun, "dry-run", false, "only count the files that would be hashed")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show when and where the baseline was taken",
		Args:  cobra.NoArgs,
		RunE:  runBaselineShow,
	}
	show.Flags().BoolVar(&flagShowJSON, "json", false, "emit JSON")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(create, show)
}

func runBaselineCreate(cmd *cobra.Command, args []string) error {
	dir, err := dirArg(args)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}
	defer s.Close()
	out := cmd.OutOrStdout()

	if flagCreateDryRun {
		n, err := engine.CountTargets(cmd.Context(), s.scanConfig(dir))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d files would be hashed under %s\n", n, dir)
		return nil
	}

	errOut := cmd.ErrOrStderr()
	if !flagQuiet {
		fmt.Fprintf(errOut, "Scanning directory: %s\n", dir)
	}
	checker := s.checker(dir, errOut, wantProgress(errOut))
	res, err := checker.CreateBaseline(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if res.Baseline.FileCount == 0 {
		fmt.Fprintln(errOut, "warning: no files found; the baseline is empty")
	}
	report.PrintCreated(out, report.Info{
		Path:      checker.BaselinePath(),
		Timestamp: res.Baseline.Timestamp(),
		Directory: res.Baseline.RootPath,
		FileCount: res.Baseline.FileCount,
	}, len(res.Scan.Skipped))
	return nil
}

func runBaselineShow(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()
	info, err := s.checker("", nil, false).Info()
	if err != nil {
		return err
	}
	if flagShowJSON {
		return report.WriteJSON(cmd.OutOrStdout(), info)
	}
	report.PrintInfo(cmd.OutOrStdout(), info)
	return nil
}
