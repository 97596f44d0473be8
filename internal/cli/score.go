package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/output"
)

var scoreCmd = &cobra.Command{
	Use:   "score <query>",
	Short: "Score search results without categorizing them",
	Long: `Compute relevance, accuracy, credibility, recency and overall scores
for each result, along with the category it fits best.

Examples:
  searchlens score "AI investment trends" -i results.json
  searchlens score "clinical trial results" -i results.json --presentable`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreInput       string
	scoreFormat      string
	scoreRelated     string
	scoreNow         string
	scorePresentable bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreInput, "input", "i", "-", "Input file, or - for stdin")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "", "Input format (json, yaml, feed; default: from extension)")
	scoreCmd.Flags().StringVar(&scoreRelated, "related", "", "File of related results used to cross-check accuracy")
	scoreCmd.Flags().StringVar(&scoreNow, "now", "", "Reference time for recency (RFC3339)")
	scoreCmd.Flags().BoolVar(&scorePresentable, "presentable", false, "Only show items whose scores reach the display threshold")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	items, err := readItems(scoreInput, scoreFormat, cmd.InOrStdin())
	if err != nil {
		return err
	}
	items = a.filterItems(items)
	opts, err := scoringOptions(cmd, scoreRelated, scoreNow)
	if err != nil {
		return err
	}

	assessed := a.categorizer.Assess(items, args[0], opts)
	if scorePresentable {
		assessed = presentable(assessed, cfg.Scoring.DisplayThreshold)
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, assessed)
}

// presentable keeps the items whose scores all reach min
func presentable(items []categorizer.Assessment, min int) []categorizer.Assessment {
	out := make([]categorizer.Assessment, 0, len(items))
	for _, a := range items {
		if a.Metrics.PassesThreshold(min) {
			out = append(out, a)
		}
	}
	return out
}
