package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/config"
	"github.com/vijay-prabhu/searchlens/internal/content"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/filter"
	"github.com/vijay-prabhu/searchlens/internal/logging"
)

// app bundles what the scoring commands share
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	categorizer *categorizer.Categorizer
	filter      *filter.Filter
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newApp builds the logger and categorizer from cfg
func newApp(cfg *config.Config) (*app, error) {
	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid categorizer settings: %w", err)
	}
	c, err := categorizer.New(registry, settings, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		categorizer: c,
		filter:      filter.New(cfg.Filters),
	}, nil
}

// filterItems drops results from blocked sources
func (a *app) filterItems(items []content.Item) []content.Item {
	kept, stats := a.filter.ApplyBatch(items)
	if stats.Dropped() > 0 {
		a.logger.Info("filtered results",
			"total", stats.Total,
			"blocklisted", stats.Blocklisted,
			"by_title", stats.ByTitle,
		)
	}
	return kept
}

func (a *app) openDB() (*database.DB, error) {
	db, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// openDB opens the configured database for commands that need nothing else
func openDB() (*database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return (&app{cfg: cfg}).openDB()
}

// readItems decodes items from path, or from stdin when path is "-". An
// empty format is inferred from the file extension.
func readItems(path, format string, stdin io.Reader) ([]content.Item, error) {
	f := content.Format(strings.ToLower(format))
	if f == "" {
		f = content.FormatFromPath(path)
	}

	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		r = file
	}

	items, err := content.Decode(r, f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}
