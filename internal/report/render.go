package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/varalys/fic/internal/compare"
)

// DigestPreview is the number of hex characters shown for each digest in
// human-readable output.
const DigestPreview = 16

const rule = "------------------------------------------------------------"

var (
	headStyle     = lipgloss.NewStyle().Bold(true)
	cleanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unreadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// PrintOptions carries context shown around a comparison.
type PrintOptions struct {
	NoColor           bool
	Duration          time.Duration
	BaselineTimestamp string
	BaselineDirectory string
	Skipped           int
}

func paint(opts PrintOptions, st lipgloss.Style, s string) string {
	if opts.NoColor {
		return s
	}
	return st.Render(s)
}

func preview(sum string) string {
	if len(sum) <= DigestPreview {
		return sum
	}
	return sum[:DigestPreview] + "..."
}

// PrintText writes a sectioned plain-text report of res.
func PrintText(w io.Writer, res compare.Result, opts PrintOptions) {
	printHeader(w, opts)
	fmt.Fprintln(w)
	switch {
	case res.Clean():
		fmt.Fprintln(w, paint(opts, cleanStyle, "No changes detected - all files match baseline"))
	case !res.HasChanges():
		fmt.Fprintln(w, paint(opts, alertStyle, "NO CHANGES DETECTED, BUT SOME FILES COULD NOT BE VERIFIED"))
		printList(w, opts, "UNREADABLE FILES", "[?]", unreadStyle, res.Unreadable)
	default:
		fmt.Fprintln(w, paint(opts, alertStyle, "CHANGES DETECTED"))
		if len(res.Modified) > 0 {
			fmt.Fprintf(w, "\n%s\n", paint(opts, headStyle, fmt.Sprintf("MODIFIED FILES (%d):", len(res.Modified))))
			for _, c := range res.Modified {
				fmt.Fprintf(w, "  %s %s\n", paint(opts, modifiedStyle, "[~]"), c.Path)
				fmt.Fprintf(w, "      old: %s\n", preview(c.Old))
				fmt.Fprintf(w, "      new: %s\n", preview(c.New))
			}
		}
		printList(w, opts, "NEW FILES", "[+]", addedStyle, res.Added)
		printList(w, opts, "DELETED FILES", "[-]", removedStyle, res.Removed)
		printList(w, opts, "UNREADABLE FILES", "[?]", unreadStyle, res.Unreadable)
	}
	printSummary(w, res, opts)
}

func printHeader(w io.Writer, opts PrintOptions) {
	if opts.BaselineTimestamp != "" {
		fmt.Fprintf(w, "Baseline created:   %s\n", opts.BaselineTimestamp)
	}
	if opts.BaselineDirectory != "" {
		fmt.Fprintf(w, "Original directory: %s\n", opts.BaselineDirectory)
	}
}

func printList(w io.Writer, opts PrintOptions, title, marker string, st lipgloss.Style, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", paint(opts, headStyle, fmt.Sprintf("%s (%d):", title, len(paths))))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s %s\n", paint(opts, st, marker), p)
	}
}

func printSummary(w io.Writer, res compare.Result, opts PrintOptions) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Baseline files: %d\n", res.BaselineCount)
	fmt.Fprintf(w, "Current files:  %d\n", res.CurrentCount)
	fmt.Fprintf(w, "Modified:       %d\n", len(res.Modified))
	fmt.Fprintf(w, "Added:          %d\n", len(res.Added))
	fmt.Fprintf(w, "Removed:        %d\n", len(res.Removed))
	fmt.Fprintf(w, "Unreadable:     %d\n", len(res.Unreadable))
	if opts.Skipped > len(res.Unreadable) {
		fmt.Fprintf(w, "Skipped:        %d\n", opts.Skipped)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration:  %.2fs\n", opts.Duration.Seconds())
	}
	fmt.Fprintln(w, rule)
}

// PrintTable writes one bordered row per changed path followed by the summary.
func PrintTable(w io.Writer, res compare.Result, opts PrintOptions) error {
	printHeader(w, opts)
	if res.Clean() {
		fmt.Fprintln(w, paint(opts, cleanStyle, "No changes detected - all files match baseline"))
		printSummary(w, res, opts)
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("STATUS", "PATH", "BASELINE", "CURRENT")
	rows := make([][]string, 0, len(res.Modified)+len(res.Added)+len(res.Removed)+len(res.Unreadable))
	for _, c := range res.Modified {
		rows = append(rows, []string{"modified", c.Path, preview(c.Old), preview(c.New)})
	}
	for _, p := range res.Added {
		rows = append(rows, []string{"added", p, "", ""})
	}
	for _, p := range res.Removed {
		rows = append(rows, []string{"removed", p, "", ""})
	}
	for _, p := range res.Unreadable {
		rows = append(rows, []string{"unreadable", p, "", ""})
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	printSummary(w, res, opts)
	return nil
}

// Info is the metadata of a stored baseline.
type Info struct {
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
	Directory string `json:"directory"`
	FileCount int    `json:"file_count"`
}

// PrintInfo writes baseline metadata without any scan.
func PrintInfo(w io.Writer, info Info) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "BASELINE INFORMATION")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Created:         %s\n", info.Timestamp)
	fmt.Fprintf(w, "Directory:       %s\n", info.Directory)
	fmt.Fprintf(w, "Files monitored: %d\n", info.FileCount)
	if info.Path != "" {
		fmt.Fprintf(w, "Baseline file:   %s\n", info.Path)
	}
	fmt.Fprintln(w, rule)
}

// PrintCreated writes the confirmation shown after a baseline is saved.
func PrintCreated(w io.Writer, info Info, skipped int) {
	fmt.Fprintln(w, "Baseline created successfully.")
	fmt.Fprintf(w, "Baseline file: %s\n", info.Path)
	fmt.Fprintf(w, "Total files monitored: %d\n", info.FileCount)
	if skipped > 0 {
		fmt.Fprintf(w, "Unreadable files skipped: %d\n", skipped)
	}
}

// Summary returns a one-line count summary of res.
func Summary(res compare.Result) string {
	parts := []string{
		fmt.Sprintf("modified=%d", len(res.Modified)),
		fmt.Sprintf("added=%d", len(res.Added)),
		fmt.Sprintf("removed=%d", len(res.Removed)),
	}
	if len(res.Unreadable) > 0 {
		parts = append(parts, fmt.Sprintf("unreadable=%d", len(res.Unreadable)))
	}
	return strings.Join(parts, " ")
}
