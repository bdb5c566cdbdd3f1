package fic

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/varalys/fic/internal/config"
	"github.com/varalys/fic/internal/logging"
)

var (
	cfgOutput          string
	cfgForce           bool
	cfgBaseline        string
	cfgInclude         string
	cfgExclude         string
	cfgThreads         int
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgHidden          bool
	cfgAuditLog        string
	cfgIgnoreFile      string
	cfgLogLevel        string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .fic.yml with the selected options",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the global config location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := config.GlobalPath()
			if p == "" {
				return errors.New("cannot determine config directory")
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cfgCmd.AddCommand(pathCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&cfgBaseline, "baseline-file", "", "baseline file location")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated include globs")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "hashing workers (0=GOMAXPROCS)")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "skip cache directories such as __pycache__")
	initCmd.Flags().BoolVar(&cfgHidden, "hidden", false, "scan hidden files and directories")
	initCmd.Flags().StringVar(&cfgAuditLog, "audit-log", "", "append a JSON line per check to this file")
	initCmd.Flags().StringVar(&cfgIgnoreFile, "ignore-file", "", "ignore patterns file kept outside the monitored tree")
	initCmd.Flags().StringVar(&cfgLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if !logging.ValidLevel(cfgLogLevel) {
		return fmt.Errorf("invalid log level %q", cfgLogLevel)
	}
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}

	fc := config.FileConfig{
		Baseline:        optStrPtr(cfgBaseline),
		Include:         optStrPtr(cfgInclude),
		Exclude:         optStrPtr(cfgExclude),
		Threads:         intPtr(cfgThreads),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		Hidden:          boolPtr(cfgHidden),
		NoColor:         boolPtr(cfgNoColor),
		AuditLog:        optStrPtr(cfgAuditLog),
		IgnoreFile:      optStrPtr(cfgIgnoreFile),
		Log:             &config.LogConfig{Level: strPtr(cfgLogLevel)},
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func boolPtr(v bool) *bool { return &v }
