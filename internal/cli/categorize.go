package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/output"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <query>",
	Short: "Score and categorize search results",
	Long: `Score search results against a query and group them into categories.

Input is a JSON or YAML list of result objects, or an RSS/Atom feed.
Elements that are not objects, and objects with no text, are skipped.

Examples:
  searchlens categorize "AI investment trends 2025" -i results.json
  cat results.json | searchlens categorize "AI funding" -i - -o json
  searchlens categorize "energy policy" -i feed.xml --save
  searchlens categorize "vaccine trial" -i results.yaml --related sources.json --cache`,
	Args: cobra.ExactArgs(1),
	RunE: runCategorize,
}

var (
	catInput    string
	catFormat   string
	catRelated  string
	catNow      string
	catBusiness bool
	catSave     bool
	catCache    bool
	catAll      bool
	catReport   bool
)

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().StringVarP(&catInput, "input", "i", "-", "Input file, or - for stdin")
	categorizeCmd.Flags().StringVar(&catFormat, "format", "", "Input format (json, yaml, feed; default: from extension)")
	categorizeCmd.Flags().StringVar(&catRelated, "related", "", "File of related results used to cross-check accuracy")
	categorizeCmd.Flags().StringVar(&catNow, "now", "", "Reference time for recency (RFC3339)")
	categorizeCmd.Flags().BoolVar(&catBusiness, "business", false, "Force business-query handling on or off")
	categorizeCmd.Flags().BoolVar(&catSave, "save", false, "Save the run to history")
	categorizeCmd.Flags().BoolVar(&catCache, "cache", false, "Reuse and store metric bundles in the local cache")
	categorizeCmd.Flags().BoolVar(&catAll, "all", false, "Include the All Results catch-all category")
	categorizeCmd.Flags().BoolVar(&catReport, "report", false, "Print per-stage counts to stderr")
}

// scoringOptions builds categorizer options from the shared scoring flags
func scoringOptions(cmd *cobra.Command, related, now string) (categorizer.Options, error) {
	var opts categorizer.Options

	if related != "" {
		items, err := readItems(related, "", cmd.InOrStdin())
		if err != nil {
			return opts, err
		}
		opts.Related = items
	}
	if now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return opts, fmt.Errorf("invalid --now: %w", err)
		}
		opts.Now = t
	}
	if f := cmd.Flags().Lookup("business"); f != nil && f.Changed {
		b := catBusiness
		opts.BusinessOverride = &b
	}
	return opts, nil
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if catAll {
		cfg.Categorizer.IncludeCatchAll = true
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	items, err := readItems(catInput, catFormat, cmd.InOrStdin())
	if err != nil {
		return err
	}
	items = a.filterItems(items)
	opts, err := scoringOptions(cmd, catRelated, catNow)
	if err != nil {
		return err
	}

	var db *database.DB
	if catSave || catCache {
		db, err = a.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
	}

	scope := a.categorizer.CacheScope(query, opts)
	if catCache {
		cached, err := db.CachedMetrics(ctx, scope, database.ItemKeys(items))
		if err != nil {
			return fmt.Errorf("failed to read metric cache: %w", err)
		}
		n := database.AttachCached(items, cached)
		a.logger.Debug("metric cache", "hits", n, "items", len(items))
	}

	results, report := a.categorizer.Run(items, query, opts)

	if catCache {
		if err := db.StoreMetrics(ctx, scope, database.ResultBundles(results)); err != nil {
			return fmt.Errorf("failed to update metric cache: %w", err)
		}
	}

	if catSave {
		run := database.RunFromResults(query, results, report)
		if err := db.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		a.logger.Info("run saved", "id", run.ID)
	}

	if err := output.OutputTo(cmd.OutOrStdout(), outputFmt, results); err != nil {
		return err
	}

	term := NewTerminal(cmd.ErrOrStderr())
	if catReport {
		if err := output.TableTo(cmd.ErrOrStderr(), report); err != nil {
			return err
		}
	}
	term.Summary(report, len(results))
	return nil
}
