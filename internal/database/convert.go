package database

import (
	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/content"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// RunFromResults converts a categorization outcome into a storable run
func RunFromResults(query string, results []categorizer.Result, report categorizer.Report) *Run {
	contexts := make([]string, 0, len(report.Contexts))
	for _, c := range report.Contexts {
		contexts = append(contexts, string(c))
	}

	r := &Run{
		Query:         query,
		Contexts:      contexts,
		Business:      report.Business,
		ItemCount:     report.Input,
		SkippedCount:  report.Skipped,
		CategoryCount: len(results),
		FallbackCount: report.Fallback,
		DurationMS:    report.Duration.Milliseconds(),
	}

	for _, res := range results {
		for pos, it := range res.Content {
			b := it.Bundle()
			var url *string
			if it.URL != "" {
				u := it.URL
				url = &u
			}
			r.Results = append(r.Results, RunResult{
				CategoryID:   res.ID,
				CategoryName: res.Name,
				Priority:     res.Priority,
				Position:     pos,
				ItemKey:      it.Key,
				Title:        it.Title,
				URL:          url,
				Affinity:     it.Affinity,
				Relevance:    b.Relevance,
				Accuracy:     b.Accuracy,
				Credibility:  b.Credibility,
				Recency:      b.Recency,
				Overall:      b.Overall,
			})
		}
	}
	return r
}

// ResultBundles collects the metric bundle of every categorized item by key
func ResultBundles(results []categorizer.Result) map[string]metrics.Bundle {
	out := make(map[string]metrics.Bundle)
	for _, res := range results {
		for _, it := range res.Content {
			out[it.Key] = it.Bundle()
		}
	}
	return out
}

// AttachCached sets cached bundles on items that carry none. It returns the
// number of items that received one.
func AttachCached(items []content.Item, cached map[string]metrics.Bundle) int {
	n := 0
	for i := range items {
		if items[i].Metrics != nil {
			continue
		}
		if b, ok := cached[items[i].Key()]; ok {
			items[i].Metrics = &b
			n++
		}
	}
	return n
}

// ItemKeys returns the identity key of every item
func ItemKeys(items []content.Item) []string {
	keys := make([]string, 0, len(items))
	for i := range items {
		keys = append(keys, items[i].Key())
	}
	return keys
}

// ParseContexts converts stored context names back into contexts, skipping
// any that are no longer recognized
func (r *Run) ParseContexts() []querycontext.Context {
	out := make([]querycontext.Context, 0, len(r.Contexts))
	for _, s := range r.Contexts {
		if c, err := querycontext.ParseContext(s); err == nil {
			out = append(out, c)
		}
	}
	return out
}
