package content

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vijay-prabhu/searchlens/internal/metrics"
)

// MaxTextLength bounds the text handed to the scorers
const MaxTextLength = 10000

// Item represents one search result supplied by the retrieval layer
type Item struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Body        string   `json:"content,omitempty" yaml:"content,omitempty"`
	Snippet     string   `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Domain      string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Affiliation string   `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Citations   []string `json:"citations,omitempty" yaml:"citations,omitempty"`
	Source      string   `json:"source,omitempty" yaml:"source,omitempty"`
	Verified    bool     `json:"verified,omitempty" yaml:"verified,omitempty"`

	// Metrics is a bundle pre-attached by the synthesis layer. When present
	// it is reused instead of recomputed.
	Metrics *metrics.Bundle `json:"_metrics,omitempty" yaml:"_metrics,omitempty"`
}

// body returns the first non-empty descriptive field
func (it *Item) body() string {
	for _, s := range []string{it.Body, it.Snippet, it.Description} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// BodyText returns the item's body as plain text, stripped of markup
func (it *Item) BodyText() string {
	return normalizeSpace(stripHTML(it.body()))
}

// Text returns the canonical scoring text: title plus body, capped at
// MaxTextLength characters
func (it *Item) Text() string {
	title := normalizeSpace(it.Title)
	body := it.BodyText()

	var text string
	switch {
	case title == "":
		text = body
	case body == "":
		text = title
	default:
		text = title + " " + body
	}
	return truncateRunes(text, MaxTextLength)
}

// Valid reports whether the item carries any extractable text
func (it *Item) Valid() bool {
	return it.Text() != ""
}

// Key returns the stable identity used for deduplication: the normalized
// URL, else the explicit ID, else a hash over normalized content
func (it *Item) Key() string {
	if u := NormalizeURL(it.URL); u != "" {
		return u
	}
	if id := strings.TrimSpace(it.ID); id != "" {
		return "id:" + id
	}

	h := sha256.New()
	h.Write([]byte(strings.ToLower(normalizeSpace(it.Title))))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(truncateRunes(it.BodyText(), 512))))
	return "sha256:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// HostDomain returns the explicit domain or the host parsed from the URL,
// lower-cased and without a leading "www."
func (it *Item) HostDomain() string {
	d := strings.TrimSpace(it.Domain)
	if d == "" && it.URL != "" {
		if u, err := url.Parse(strings.TrimSpace(it.URL)); err == nil {
			d = u.Hostname()
		}
	}
	d = strings.ToLower(d)
	return strings.TrimPrefix(d, "www.")
}

// Published returns the parsed publication date, or the zero time when the
// date is missing or unparseable
func (it *Item) Published() time.Time {
	return ParseDate(it.Date)
}

// NormalizeURL lower-cases scheme and host and drops fragments and trailing
// slashes so that trivially different links share one identity
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSuffix(raw, "/"))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
