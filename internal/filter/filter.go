package filter

import (
	"fmt"
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/config"
	"github.com/vijay-prabhu/searchlens/internal/content"
)

// Layer identifies which filtering layer made the decision
type Layer string

const (
	LayerAllowlist Layer = "allowlist"
	LayerBlocklist Layer = "blocklist"
	LayerTitle     Layer = "title"
	LayerPassed    Layer = "passed"
)

// Result represents the outcome of filtering an item
type Result struct {
	Include bool   // Whether to keep this item
	Layer   Layer  // Which layer made the decision
	Reason  string // Human-readable reason
}

// Filter drops search results from unwanted sources before scoring.
// Allowlisted domains bypass every other layer.
type Filter struct {
	config config.FilterConfig
}

// New creates a new Filter with the given configuration
func New(cfg config.FilterConfig) *Filter {
	return &Filter{config: cfg}
}

// Empty reports whether the filter has no rules and keeps everything
func (f *Filter) Empty() bool {
	return f == nil ||
		len(f.config.DomainAllowlist) == 0 && len(f.config.DomainBlocklist) == 0 && len(f.config.TitleBlocklist) == 0
}

// Apply runs the item through the filtering layers
func (f *Filter) Apply(it *content.Item) Result {
	domain := it.HostDomain()

	// Layer 1: Domain allowlist (always keep)
	if pattern, ok := matchAny(domain, f.config.DomainAllowlist); ok {
		return Result{Include: true, Layer: LayerAllowlist, Reason: "Allowlisted domain: " + pattern}
	}

	// Layer 2: Domain blocklist
	if pattern, ok := matchAny(domain, f.config.DomainBlocklist); ok {
		return Result{Include: false, Layer: LayerBlocklist, Reason: "Blocklisted domain: " + pattern}
	}

	// Layer 3: Title blocklist
	if result := f.checkTitleBlocklist(it); result != nil {
		return *result
	}

	return Result{Include: true, Layer: LayerPassed}
}

func (f *Filter) checkTitleBlocklist(it *content.Item) *Result {
	title := strings.ToLower(it.Title)
	if title == "" {
		return nil
	}

	for _, pattern := range f.config.TitleBlocklist {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern != "" && strings.Contains(title, pattern) {
			return &Result{
				Include: false,
				Layer:   LayerTitle,
				Reason:  fmt.Sprintf("Title matches blocklist pattern: %q", pattern),
			}
		}
	}
	return nil
}

// Stats counts filtering decisions by layer
type Stats struct {
	Total       int `json:"total"`
	Allowlisted int `json:"allowlisted"`
	Blocklisted int `json:"blocklisted"`
	ByTitle     int `json:"by_title"`
	Passed      int `json:"passed"`
}

// Dropped returns the number of items the filter removed
func (s Stats) Dropped() int {
	return s.Blocklisted + s.ByTitle
}

// ApplyBatch returns the items to keep, in input order, with per-layer
// counts. A nil or empty filter returns items unchanged.
func (f *Filter) ApplyBatch(items []content.Item) ([]content.Item, Stats) {
	stats := Stats{Total: len(items)}
	if f.Empty() {
		stats.Passed = len(items)
		return items, stats
	}

	kept := make([]content.Item, 0, len(items))
	for i := range items {
		result := f.Apply(&items[i])
		switch result.Layer {
		case LayerAllowlist:
			stats.Allowlisted++
		case LayerBlocklist:
			stats.Blocklisted++
		case LayerTitle:
			stats.ByTitle++
		case LayerPassed:
			stats.Passed++
		}
		if result.Include {
			kept = append(kept, items[i])
		}
	}
	return kept, stats
}
