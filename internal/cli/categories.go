package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/output"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the category registry",
	Long: `List every category in priority order. Lower priority values win the
category cap. Use registry_path in the config file to replace the
built-in catalog.`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, registry.ByPriority())
}
