package config

import (
	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/category"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig    `toml:"database"`
	Logging     LoggingConfig     `toml:"logging"`
	Scoring     ScoringConfig     `toml:"scoring"`
	Categorizer CategorizerConfig `toml:"categorizer"`
	Filters     FilterConfig      `toml:"filters"`
	MCP         MCPConfig         `toml:"mcp"`
	Telemetry   TelemetryConfig   `toml:"telemetry"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ScoringConfig contains metric settings
type ScoringConfig struct {
	// DisplayThreshold is the score a metric must reach to count as
	// presentable
	DisplayThreshold int `toml:"display_threshold"`
	// Weights overrides per-context weight profiles, keyed by context name
	Weights map[string]querycontext.Weights `toml:"weights"`
}

// CategorizerConfig contains categorization pipeline settings
type CategorizerConfig struct {
	FirstPass       float64 `toml:"first_pass"`
	SecondPass      float64 `toml:"second_pass"`
	FallbackScore   float64 `toml:"fallback_score"`
	MatchThreshold  float64 `toml:"match_threshold"`
	MaxCategories   int     `toml:"max_categories"`
	Workers         int     `toml:"workers"`
	IncludeCatchAll bool    `toml:"include_catch_all"`
	// RegistryPath points at a TOML file of [[category]] tables replacing
	// the built-in catalog
	RegistryPath string `toml:"registry_path"`
}

// FilterConfig contains source filtering rules applied before scoring
type FilterConfig struct {
	// Domains that are always kept (e.g., "reuters.com", "arxiv")
	DomainAllowlist []string `toml:"domain_allowlist"`
	// Domains whose results are dropped
	DomainBlocklist []string `toml:"domain_blocklist"`
	// Case-insensitive title substrings whose results are dropped
	TitleBlocklist []string `toml:"title_blocklist"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// TelemetryConfig contains Prometheus exporter settings
type TelemetryConfig struct {
	// MetricsAddr is the listen address for /metrics while the MCP server
	// runs. Empty disables the exporter.
	MetricsAddr string `toml:"metrics_addr"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	t := categorizer.DefaultThresholds()
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/searchlens/searchlens.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Scoring: ScoringConfig{
			DisplayThreshold: metrics.DisplayThreshold,
		},
		Categorizer: CategorizerConfig{
			FirstPass:      t.FirstPass,
			SecondPass:     t.SecondPass,
			FallbackScore:  t.FallbackScore,
			MatchThreshold: t.Match,
			MaxCategories:  6,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}

// Settings builds categorizer settings from the configuration
func (c *Config) Settings() (categorizer.Settings, error) {
	s := categorizer.DefaultSettings()
	s.Thresholds = categorizer.Thresholds{
		FirstPass:     c.Categorizer.FirstPass,
		SecondPass:    c.Categorizer.SecondPass,
		FallbackScore: c.Categorizer.FallbackScore,
		Match:         c.Categorizer.MatchThreshold,
	}
	s.MaxCategories = c.Categorizer.MaxCategories
	if c.Categorizer.Workers > 0 {
		s.Workers = c.Categorizer.Workers
	}
	s.IncludeCatchAll = c.Categorizer.IncludeCatchAll

	override, err := c.Scoring.profiles()
	if err != nil {
		return s, err
	}
	s.Profiles = s.Profiles.Merge(override)
	return s, s.Validate()
}

func (s ScoringConfig) profiles() (querycontext.Profiles, error) {
	p := make(querycontext.Profiles, len(s.Weights))
	for name, w := range s.Weights {
		ctx, err := querycontext.ParseContext(name)
		if err != nil {
			return nil, err
		}
		p[ctx] = w
	}
	return p, nil
}

// Registry returns the configured category registry: the file at
// registry_path when set, the built-in catalog otherwise
func (c *Config) Registry() (*category.Registry, error) {
	if c.Categorizer.RegistryPath == "" {
		return category.Default(), nil
	}
	return category.LoadRegistry(c.Categorizer.RegistryPath)
}
