package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

var configShowEffective bool

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowEffective, "effective", false,
		"Show the configuration after defaults and path expansion")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
		fmt.Fprintln(out, "Use 'searchlens config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created config file at %s\n", configPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Run 'searchlens categories' to review the category catalog")
	fmt.Fprintln(out, "  2. Run 'searchlens categorize \"<query>\" -i results.json' to categorize results")
	fmt.Fprintln(out, "  3. Add 'searchlens mcp' to your MCP client to expose the tools")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configShowEffective {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(out, "No config file found. Run 'searchlens config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Fprintf(out, "# Config file: %s\n\n", configPath)
	fmt.Fprintln(out, string(data))
	return nil
}

const defaultConfig = `# searchlens configuration

[database]
path = "~/.local/share/searchlens/searchlens.db"

[logging]
level = "info"    # debug, info, warn, error
format = "text"   # text, json

[scoring]
display_threshold = 70   # minimum score for 'score --presentable'

# Override a context's weight profile. Weights must sum to 1.0.
# [scoring.weights.news]
# relevance = 0.45
# accuracy = 0.30
# credibility = 0.25

[categorizer]
first_pass = 0.70        # affinity needed in the strict pass
second_pass = 0.65       # affinity needed in the relaxed pass
fallback_score = 0.60    # affinity recorded for "Other Results"
match_threshold = 0.5    # base threshold, relaxed for verified items and business queries
max_categories = 6
workers = 0              # 0 uses one worker per CPU
include_catch_all = false
# registry_path = "~/.config/searchlens/categories.toml"

[filters]
# Results from allowlisted domains skip every other rule
domain_allowlist = []
domain_blocklist = []    # e.g., ["pinterest", "contentfarm.net"]
title_blocklist = []     # e.g., ["sponsored", "advertisement"]

[mcp]
enabled = true
transport = "stdio"

[telemetry]
# Serve Prometheus metrics while 'searchlens mcp' runs
# metrics_addr = "127.0.0.1:9464"
`
