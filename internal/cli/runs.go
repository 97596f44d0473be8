package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/output"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved categorization runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	Long: `List saved runs, newest first.

Examples:
  searchlens runs list                # All runs
  searchlens runs list --since=7d     # Runs from the last 7 days
  searchlens runs list --query=ai     # Runs whose query mentions "ai"`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved run with its categorized items",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

var (
	runsSince string
	runsQuery string
	runsLimit int
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsListCmd.Flags().StringVar(&runsSince, "since", "", "Filter by time (e.g., 7d, 2w, 1m)")
	runsListCmd.Flags().StringVar(&runsQuery, "query", "", "Filter by query text")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 0, "Maximum number of results")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.ListOptions{Limit: runsLimit}
	if runsQuery != "" {
		opts.Query = &runsQuery
	}
	if runsSince != "" {
		since, err := parseDuration(runsSince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-since)
		opts.Since = &sinceTime
	}

	runs, err := db.ListRuns(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, runs)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", args[0])
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, run)
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}
