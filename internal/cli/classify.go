package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show the contexts and scoring weights a query selects",
	Long: `Classify a query into topical contexts (financial, business, medical,
news, technical, academic) and show the weight profile used to compute
overall scores for it.

Examples:
  searchlens classify "AI investment trends 2025"
  searchlens classify "latest clinical news" -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, output.Classify(args[0], settings.Profiles))
}
