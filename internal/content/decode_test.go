package content

import (
	"strings"
	"testing"
)

func TestDecode_JSON(t *testing.T) {
	in := `[
		{"title": "One", "content": "first", "url": "https://a.example/1"},
		5,
		"not an object",
		{"title": "Two", "_metrics": {"relevance": 90, "accuracy": 80, "credibility": 75, "recency": 60, "overall": 82}}
	]`

	items, err := Decode(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Body != "first" {
		t.Errorf("Body = %q, want %q", items[0].Body, "first")
	}
	if items[1].Metrics == nil || items[1].Metrics.Relevance != 90 {
		t.Errorf("Metrics = %+v, want relevance 90", items[1].Metrics)
	}
}

func TestDecode_NonArray(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
	}{
		{"json object", `{"title": "x"}`, FormatJSON},
		{"json empty", ``, FormatJSON},
		{"yaml mapping", "title: x\n", FormatYAML},
		{"yaml empty", "", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Decode(strings.NewReader(tt.in), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if items == nil || len(items) != 0 {
				t.Errorf("Decode() = %v, want empty non-nil slice", items)
			}
		})
	}
}

func TestDecode_YAML(t *testing.T) {
	in := `
- title: Venture funding rises
  content: Investors poured capital into AI startups.
  date: "2025-01-10"
  verified: true
- 3
- title: Second
`
	items, err := Decode(strings.NewReader(in), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if !items[0].Verified {
		t.Error("Verified = false, want true")
	}
	if items[0].Date != "2025-01-10" {
		t.Errorf("Date = %q, want 2025-01-10", items[0].Date)
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	if _, err := Decode(strings.NewReader("[]"), Format("csv")); err == nil {
		t.Error("Decode() expected error for unknown format")
	}
}

func TestDecodeFeed(t *testing.T) {
	in := `<?xml version="1.0"?>
<rss version="2.0">
<channel>
  <title>Example Feed</title>
  <item>
    <title>First post</title>
    <link>https://example.com/1</link>
    <description>First item body</description>
    <pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate>
    <guid>g1</guid>
  </item>
</channel>
</rss>`

	items, err := DecodeFeed(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeFeed() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	it := items[0]
	if it.URL != "https://example.com/1" {
		t.Errorf("URL = %q", it.URL)
	}
	if it.Date != "2025-01-06T10:00:00Z" {
		t.Errorf("Date = %q, want 2025-01-06T10:00:00Z", it.Date)
	}
	if it.Source != "Example Feed" {
		t.Errorf("Source = %q, want Example Feed", it.Source)
	}
	if it.Text() != "First post First item body" {
		t.Errorf("Text() = %q", it.Text())
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"results.json": FormatJSON,
		"results.YML":  FormatYAML,
		"feed.xml":     FormatFeed,
		"noext":        FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
