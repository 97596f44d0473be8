package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/mcp"
	"github.com/vijay-prabhu/searchlens/internal/telemetry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants categorize search results and browse saved runs.

Add to your MCP client config:

{
  "mcpServers": {
    "searchlens": {
      "command": "/path/to/searchlens",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Check if MCP is enabled
	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Handle interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	if cfg.Telemetry.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m := telemetry.NewMetrics()
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		a.categorizer.SetRecorder(m)

		go func() {
			if err := telemetry.Serve(ctx, cfg.Telemetry.MetricsAddr, reg, a.logger); err != nil {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	server := mcp.New(db, a.categorizer, a.logger, version)
	server.SetFilter(a.filter)
	a.logger.Info("mcp server starting", "transport", cfg.MCP.Transport, "categories", a.categorizer.Registry().Len())
	return server.Start(ctx)
}
