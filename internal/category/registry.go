package category

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrEmptyRegistry is returned when a registry is built with no categories
var ErrEmptyRegistry = errors.New("category registry is empty")

// Category is a named thematic bucket with a two-tier keyword vocabulary.
// Lower priority values take precedence.
type Category struct {
	ID        string   `toml:"id" json:"id"`
	Name      string   `toml:"name" json:"name"`
	Priority  int      `toml:"priority" json:"priority"`
	Primary   []string `toml:"primary" json:"primary,omitempty"`
	Secondary []string `toml:"secondary" json:"secondary,omitempty"`
	Business  bool     `toml:"business" json:"business,omitempty"`
	Fallback  bool     `toml:"fallback" json:"fallback,omitempty"`
	CatchAll  bool     `toml:"catch_all" json:"catch_all,omitempty"`
}

// Assignable reports whether items can win this category on keyword
// affinity. The fallback and catch-all buckets are filled by rule instead.
func (c Category) Assignable() bool {
	return !c.Fallback && !c.CatchAll
}

func (c Category) clone() Category {
	c.Primary = append([]string(nil), c.Primary...)
	c.Secondary = append([]string(nil), c.Secondary...)
	return c
}

// Registry is the immutable catalog of categories. It is built once at
// startup and shared read-only by every categorization run.
type Registry struct {
	categories []Category
	byID       map[string]int
	fallback   int
	catchAll   int
}

// NewRegistry validates cats and builds a registry over copies of them.
// Keywords are lower-cased. Configuration problems are reported here and
// nowhere else.
func NewRegistry(cats []Category) (*Registry, error) {
	if len(cats) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{
		categories: make([]Category, 0, len(cats)),
		byID:       make(map[string]int, len(cats)),
		fallback:   -1,
		catchAll:   -1,
	}

	var errs []error
	for i, c := range cats {
		c = c.clone()
		c.ID = strings.TrimSpace(c.ID)
		c.Name = strings.TrimSpace(c.Name)
		c.Primary = lowerAll(c.Primary)
		c.Secondary = lowerAll(c.Secondary)

		if c.ID == "" {
			errs = append(errs, fmt.Errorf("category %d: id is required", i))
			continue
		}
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("category %q: name is required", c.ID))
		}
		if _, dup := r.byID[c.ID]; dup {
			errs = append(errs, fmt.Errorf("category %q: duplicate id", c.ID))
			continue
		}
		if c.Fallback && c.CatchAll {
			errs = append(errs, fmt.Errorf("category %q: cannot be both fallback and catch_all", c.ID))
		}
		if c.Assignable() && len(c.Primary) == 0 {
			errs = append(errs, fmt.Errorf("category %q: primary keywords are required", c.ID))
		}

		idx := len(r.categories)
		switch {
		case c.Fallback && r.fallback != -1:
			errs = append(errs, fmt.Errorf("category %q: only one fallback category is allowed", c.ID))
		case c.Fallback:
			r.fallback = idx
		}
		switch {
		case c.CatchAll && r.catchAll != -1:
			errs = append(errs, fmt.Errorf("category %q: only one catch_all category is allowed", c.ID))
		case c.CatchAll:
			r.catchAll = idx
		}

		r.byID[c.ID] = idx
		r.categories = append(r.categories, c)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// MustRegistry builds a registry or panics. Intended for static tables.
func MustRegistry(cats []Category) *Registry {
	r, err := NewRegistry(cats)
	if err != nil {
		panic(err)
	}
	return r
}

// registryFile is the on-disk TOML layout
type registryFile struct {
	Categories []Category `toml:"category"`
}

// LoadRegistry reads categories from a TOML file of [[category]] tables
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category registry: %w", err)
	}

	var f registryFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse category registry: %w", err)
	}

	r, err := NewRegistry(f.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid category registry %s: %w", path, err)
	}
	return r, nil
}

// Len returns the number of categories
func (r *Registry) Len() int {
	return len(r.categories)
}

// All returns copies of every category in registry order
func (r *Registry) All() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = c.clone()
	}
	return out
}

// ByPriority returns copies of every category sorted by priority, then
// registry order
func (r *Registry) ByPriority() []Category {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Get returns a copy of the category with the given id
func (r *Registry) Get(id string) (Category, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Category{}, false
	}
	return r.categories[idx].clone(), true
}

// Fallback returns the designated fallback category, if any
func (r *Registry) Fallback() (Category, bool) {
	if r.fallback == -1 {
		return Category{}, false
	}
	return r.categories[r.fallback].clone(), true
}

// CatchAll returns the designated catch-all category, if any
func (r *Registry) CatchAll() (Category, bool) {
	if r.catchAll == -1 {
		return Category{}, false
	}
	return r.categories[r.catchAll].clone(), true
}

// Position returns the registry position of id, used for stable tie-breaks.
// Unknown ids sort last.
func (r *Registry) Position(id string) int {
	if idx, ok := r.byID[id]; ok {
		return idx
	}
	return len(r.categories)
}

// assignable returns the internal categories that compete on affinity.
// Callers must not modify the result.
func (r *Registry) assignable() []Category {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.Assignable() {
			out = append(out, c)
		}
	}
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
