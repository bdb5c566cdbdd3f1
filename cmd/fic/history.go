package fic

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varalys/fic/internal/audit"
	"github.com/varalys/fic/internal/report"
)

var (
	flagHistoryLimit int
	flagHistoryJSON  bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past checks recorded in the audit log",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most N records (0 = all)")
	cmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()
	if s.auditLog == "" {
		return errors.New("no audit log configured; set audit_log in .fic.yml")
	}

	records, err := audit.NewLog(s.auditLog).LoadHistory()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
		records = records[:flagHistoryLimit]
	}

	out := cmd.OutOrStdout()
	if flagHistoryJSON {
		if records == nil {
			records = []audit.Record{}
		}
		return report.WriteJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No checks recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("WHEN", "ROOT", "MODIFIED", "ADDED", "REMOVED", "UNREADABLE", "RESULT")
	for _, r := range records {
		result := "clean"
		if !r.Clean {
			result = "changed"
		}
		row := []string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Root,
			strconv.Itoa(r.Modified),
			strconv.Itoa(r.Added),
			strconv.Itoa(r.Removed),
			strconv.Itoa(r.Unreadable),
			result,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
