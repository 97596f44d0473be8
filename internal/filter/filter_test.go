package filter

import (
	"testing"

	"github.com/vijay-prabhu/searchlens/internal/config"
	"github.com/vijay-prabhu/searchlens/internal/content"
)

func TestFilter_Apply(t *testing.T) {
	f := New(config.FilterConfig{
		DomainAllowlist: []string{"reuters.com"},
		DomainBlocklist: []string{"contentfarm.net", "pinterest"},
		TitleBlocklist:  []string{"Sponsored", "press release"},
	})

	tests := []struct {
		name     string
		item     content.Item
		wantIncl bool
		wantLyr  Layer
	}{
		{
			name:     "allowlisted domain",
			item:     content.Item{URL: "https://www.reuters.com/markets/x", Title: "Sponsored: markets"},
			wantIncl: true,
			wantLyr:  LayerAllowlist,
		},
		{
			name:     "blocklisted subdomain",
			item:     content.Item{URL: "https://blog.contentfarm.net/p/1", Title: "AI trends"},
			wantIncl: false,
			wantLyr:  LayerBlocklist,
		},
		{
			name:     "bare name pattern",
			item:     content.Item{URL: "https://pinterest.com/pin/1", Title: "AI trends"},
			wantIncl: false,
			wantLyr:  LayerBlocklist,
		},
		{
			name:     "title blocklist",
			item:     content.Item{URL: "https://example.com/a", Title: "SPONSORED: best VC funds"},
			wantIncl: false,
			wantLyr:  LayerTitle,
		},
		{
			name:     "passes",
			item:     content.Item{URL: "https://example.com/a", Title: "AI investment trends"},
			wantIncl: true,
			wantLyr:  LayerPassed,
		},
		{
			name:     "no url",
			item:     content.Item{Title: "AI investment trends"},
			wantIncl: true,
			wantLyr:  LayerPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Apply(&tt.item)
			if result.Include != tt.wantIncl {
				t.Errorf("Include = %v, want %v", result.Include, tt.wantIncl)
			}
			if result.Layer != tt.wantLyr {
				t.Errorf("Layer = %v, want %v", result.Layer, tt.wantLyr)
			}
		})
	}
}

func TestMatchesDomainPattern(t *testing.T) {
	tests := []struct {
		domain  string
		pattern string
		want    bool
	}{
		{"example.com", "example.com", true},
		{"news.example.com", "example.com", true},
		{"example.com", "www.example.com", true},
		{"notexample.com", "example.com", false},
		{"medium.com", "medium", true},
		{"mediumsized.com", "medium", false},
	}

	for _, tt := range tests {
		t.Run(tt.domain+"/"+tt.pattern, func(t *testing.T) {
			if got := matchesDomainPattern(tt.domain, tt.pattern); got != tt.want {
				t.Errorf("matchesDomainPattern(%q, %q) = %v, want %v", tt.domain, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFilter_ApplyBatch(t *testing.T) {
	f := New(config.FilterConfig{
		DomainBlocklist: []string{"spam.io"},
		TitleBlocklist:  []string{"advertisement"},
	})
	items := []content.Item{
		{ID: "a", URL: "https://spam.io/x"},
		{ID: "b", Title: "Advertisement"},
		{ID: "c", Title: "Real news"},
		{ID: "d", URL: "https://example.org/y"},
	}

	kept, stats := f.ApplyBatch(items)
	if len(kept) != 2 || kept[0].ID != "c" || kept[1].ID != "d" {
		t.Errorf("kept = %+v, want c and d in order", kept)
	}
	want := Stats{Total: 4, Blocklisted: 1, ByTitle: 1, Passed: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if stats.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", stats.Dropped())
	}
}

func TestFilter_Empty(t *testing.T) {
	var nilFilter *Filter
	if !nilFilter.Empty() {
		t.Error("nil filter should be empty")
	}

	items := []content.Item{{ID: "a"}, {ID: "b"}}
	kept, stats := nilFilter.ApplyBatch(items)
	if len(kept) != 2 || stats.Passed != 2 {
		t.Errorf("nil filter kept %d, stats %+v", len(kept), stats)
	}

	if New(config.FilterConfig{}).Empty() != true {
		t.Error("filter without rules should be empty")
	}
}
