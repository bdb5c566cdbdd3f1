package fic

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/update"
)

var flagVersionCheck bool

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the fic version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fic v%s\n", currentVersion())
			if !flagVersionCheck {
				return nil
			}
			latest, newer, err := update.Check(version, false)
			switch {
			case err != nil:
				return err
			case latest == "":
				fmt.Fprintln(out, "latest release unknown (offline or CI)")
			case newer:
				fmt.Fprintf(out, "new version available: v%s  run 'fic update' to upgrade\n", latest)
			default:
				fmt.Fprintln(out, "up to date")
			}
			return nil
		},
	}
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "also look up the latest release")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update fic to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			latest, err := selfUpdate()
			if err != nil {
				return fmt.Errorf("self update: %w", err)
			}
			if latest == currentVersion().String() {
				fmt.Fprintf(cmd.OutOrStdout(), "fic v%s is already the latest release\n", latest)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated to v%s\n", latest)
			return nil
		},
	}

	rootCmd.AddCommand(versionCmd, updateCmd)
}
