package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdweave/internal/history"
)

var (
	historyLimit int
	historyStats bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions",
	Long: `History lists recent conversions from the history database, newest first.
With --stats it prints aggregate totals instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to list")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "print aggregate statistics instead of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg := cliConfig(cmd)
	if cfg.HistoryDB == "" {
		return errors.New("no history database configured: set history_db in config.toml or HISTORY_DB")
	}
	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history db: %w", err)
	}
	defer store.Close()

	if historyStats {
		return printStats(cmd, store)
	}
	return printEntries(cmd, store)
}

func printEntries(cmd *cobra.Command, store *history.Store) error {
	entries, err := store.List(historyLimit, 0)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no conversions recorded"))
		return nil
	}
	for _, c := range entries {
		mark := successStyle.Render("✓")
		if c.Status == history.StatusFailed {
			mark = errorStyle.Render("✗")
		}
		line := fmt.Sprintf("%s %s  %s",
			mark,
			dimStyle.Render(c.CreatedAt.Local().Format("2006-01-02 15:04")),
			titleStyle.Render(c.Title))
		if c.Status == history.StatusFailed {
			line += "  " + dimStyle.Render(c.Error)
		} else {
			line += fmt.Sprintf("  %s  %s",
				dimStyle.Render(fmt.Sprintf("(%s, %dp/%ds)", c.Format, c.Pages, c.Sections)),
				c.OutputPath)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func printStats(cmd *cobra.Command, store *history.Store) error {
	st, err := store.Stats()
	if err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("%s %d  %s %d  %s %d",
			dimStyle.Render("Total:"), st.Total,
			successStyle.Render("completed:"), st.Completed,
			errorStyle.Render("failed:"), st.Failed),
		fmt.Sprintf("%s %d   %s %d   %s %s",
			dimStyle.Render("Pages:"), st.TotalPages,
			dimStyle.Render("Sections:"), st.TotalSections,
			dimStyle.Render("Output:"), formatBytes(st.OutputBytes)),
		fmt.Sprintf("%s %.0fms", dimStyle.Render("Avg duration:"), st.AvgDurationMS),
	}
	if len(st.ByFormat) > 0 {
		lines = append(lines, dimStyle.Render("Formats:")+" "+formatCounts(st.ByFormat))
	}
	fmt.Fprintln(cmd.OutOrStdout(), boxStyle.Render(strings.Join(lines, "\n")))
	return nil
}

func formatCounts(byFormat map[string]int64) string {
	keys := make([]string, 0, len(byFormat))
	for k := range byFormat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, byFormat[k]))
	}
	return strings.Join(parts, ", ")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
