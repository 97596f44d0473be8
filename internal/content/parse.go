package content

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"2006/01/02",
	"2006-01",
	"2006",
}

// ParseDate parses a publication date in any of the common layouts seen in
// feeds and search APIs. Returns the zero time when nothing matches.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// looksLikeHTML is a cheap check to avoid running the HTML parser over
// plain text
func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	if i == -1 {
		return false
	}
	return strings.IndexByte(s[i:], '>') != -1
}

// stripHTML returns the visible text of an HTML fragment. Plain text and
// unparseable input are returned unchanged.
func stripHTML(s string) string {
	if !looksLikeHTML(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return strings.Join(parts, " ")
}
