package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// Format identifies an input encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatFeed Format = "feed"
)

// FormatFromPath guesses the input format from a file extension
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".rss"), strings.HasSuffix(lower, ".atom"):
		return FormatFeed
	default:
		return FormatJSON
	}
}

// Decode reads a list of items in the given format. Input that is not a
// list decodes to an empty slice; list elements that are not objects are
// skipped.
func Decode(r io.Reader, format Format) ([]Item, error) {
	switch format {
	case FormatJSON, "":
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatFeed:
		return DecodeFeed(r)
	default:
		return nil, fmt.Errorf("unknown input format: %s (use json, yaml or feed)", format)
	}
}

func decodeJSON(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return []Item{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			continue
		}
		var it Item
		if err := json.Unmarshal(elem, &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func decodeYAML(r io.Reader) ([]Item, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return []Item{}, nil
	}

	items := make([]Item, 0, len(root.Content))
	for _, node := range root.Content {
		if node.Kind != yaml.MappingNode {
			continue
		}
		var it Item
		if err := node.Decode(&it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// DecodeFeed converts a local RSS or Atom document into items
func DecodeFeed(r io.Reader) ([]Item, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if fi == nil {
			continue
		}
		it := Item{
			ID:          fi.GUID,
			Title:       fi.Title,
			Body:        fi.Content,
			Description: fi.Description,
			URL:         fi.Link,
			Source:      feed.Title,
		}
		switch {
		case fi.PublishedParsed != nil:
			it.Date = fi.PublishedParsed.UTC().Format(time.RFC3339)
		case fi.UpdatedParsed != nil:
			it.Date = fi.UpdatedParsed.UTC().Format(time.RFC3339)
		default:
			it.Date = fi.Published
		}
		if fi.Author != nil {
			it.Author = fi.Author.Name
		} else if len(fi.Authors) > 0 && fi.Authors[0] != nil {
			it.Author = fi.Authors[0].Name
		}
		items = append(items, it)
	}
	return items, nil
}
