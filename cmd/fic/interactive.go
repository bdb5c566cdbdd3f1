package fic

import (
	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"menu"},
		Short:   "Create, check and inspect baselines from a menu",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := dirArg(nil)
			if err != nil {
				return err
			}
			s, err := loadSettings(cmd, dir)
			if err != nil {
				return err
			}
			defer s.Close()
			// the menu owns the screen, so no progress output
			return tui.Run(cmd.Context(), s.checker(dir, nil, false), s.noColor)
		},
	}
	rootCmd.AddCommand(cmd)
}
