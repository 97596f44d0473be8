package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics over saved runs",
	Long: `Display aggregate statistics about saved categorization runs.

Examples:
  searchlens stats             # Overall stats
  searchlens stats --since=7d  # Stats for last 7 days`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsSince string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Time period (e.g., 7d, 2w, 1m)")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var since *time.Time
	if statsSince != "" {
		duration, err := parseDuration(statsSince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-duration)
		since = &sinceTime
	}

	stats, err := db.GetStats(cmd.Context(), since)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, stats)
}
