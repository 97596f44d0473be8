package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the metric cache",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete cached metric bundles older than a period",
	Long: `Delete cached metric bundles that have not been refreshed within the
given period. Bundles are cached by 'categorize --cache'.

Examples:
  searchlens cache prune              # Older than 30 days
  searchlens cache prune --older=1w`,
	Args: cobra.NoArgs,
	RunE: runCachePrune,
}

var cacheOlder string

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	cachePruneCmd.Flags().StringVar(&cacheOlder, "older", "30d", "Age threshold (e.g., 7d, 2w, 1m)")
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	age, err := parseDuration(cacheOlder)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.PruneMetrics(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached bundle(s)\n", n)
	return nil
}
