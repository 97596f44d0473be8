package category

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/terms"
)

// Affinity component ceilings. The three parts sum to 1.0.
const (
	primaryShare   = 0.60
	secondaryShare = 0.25
	queryShare     = 0.15

	// keyword hits needed for a tier to reach its full share
	saturation = 3.0
)

// Contextual modifiers
const (
	BusinessBoost    = 1.15
	VerifiedBoost    = 1.2
	RecencyBoost     = 1.05
	BoostCap         = 0.95
	recentWithinDays = 7
)

// Adaptive thresholds
const (
	DefaultThreshold      = 0.5
	VerifiedThreshold     = 0.1
	BusinessRelief        = 0.05
	BusinessThresholdBase = 0.3
)

// MatchContext carries what the matcher needs to know about the query and
// the item beyond its text
type MatchContext struct {
	Query     string
	Business  bool // the query reads as business or financial
	Verified  bool // the item was flagged verified upstream
	Published time.Time
	Now       time.Time
}

func (mc MatchContext) recent() bool {
	if mc.Published.IsZero() {
		return false
	}
	now := mc.Now
	if now.IsZero() {
		now = time.Now()
	}
	age := now.Sub(mc.Published)
	return age >= 0 && age < recentWithinDays*24*time.Hour
}

// Match pairs a category with an item's affinity for it
type Match struct {
	Category Category
	Score    float64
}

// Matcher scores item-to-category affinity against a registry
type Matcher struct {
	registry         *Registry
	defaultThreshold float64
}

// NewMatcher creates a Matcher over r with DefaultThreshold
func NewMatcher(r *Registry) *Matcher {
	return &Matcher{registry: r, defaultThreshold: DefaultThreshold}
}

// WithDefaultThreshold returns a copy of m using t as the base threshold
func (m *Matcher) WithDefaultThreshold(t float64) *Matcher {
	c := *m
	c.defaultThreshold = t
	return &c
}

// Registry returns the registry the matcher reads from
func (m *Matcher) Registry() *Registry {
	return m.registry
}

// Threshold returns the effective match threshold for an item: relaxed
// heavily for verified items and slightly for business queries
func (m *Matcher) Threshold(mc MatchContext) float64 {
	switch {
	case mc.Verified:
		return VerifiedThreshold
	case mc.Business:
		return math.Max(BusinessThresholdBase, m.defaultThreshold-BusinessRelief)
	default:
		return m.defaultThreshold
	}
}

// Relaxed reports whether the item's threshold differs from the default
func (m *Matcher) Relaxed(mc MatchContext) bool {
	return m.Threshold(mc) < m.defaultThreshold
}

// document is an item's text prepared once for matching against every
// category
type document struct {
	lower string
	set   terms.Set
	query []string
}

func newDocument(text, query string) document {
	lower := strings.ToLower(text)
	return document{
		lower: lower,
		set:   terms.NewSet(lower),
		query: terms.Significant(query),
	}
}

func (d document) has(kw string) bool {
	if strings.ContainsAny(kw, " -&") {
		return strings.Contains(d.lower, kw)
	}
	return d.set.Has(kw)
}

func (d document) hits(keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if d.has(kw) {
			n++
		}
	}
	return n
}

// Score returns the item's affinity for cat in [0,1]
func (m *Matcher) Score(text string, cat Category, mc MatchContext) float64 {
	return m.score(newDocument(text, mc.Query), cat, mc)
}

func (m *Matcher) score(doc document, cat Category, mc MatchContext) float64 {
	if !cat.Assignable() || doc.lower == "" {
		return 0
	}

	primary := math.Min(1, float64(doc.hits(cat.Primary))/saturation) * primaryShare
	secondary := math.Min(1, float64(doc.hits(cat.Secondary))/saturation) * secondaryShare
	score := primary + secondary + queryOverlap(doc.query, cat)*queryShare

	if score == 0 {
		return 0
	}

	if mc.recent() {
		score = math.Min(1, score*RecencyBoost)
	}
	if mc.Verified {
		score = math.Min(BoostCap, score*VerifiedBoost)
	}
	if mc.Business && cat.Business {
		score = ApplyBusinessBoost(score)
	}
	return score
}

// ApplyBusinessBoost lifts a business category's affinity under a business
// query. The result never exceeds BoostCap, however often it is applied.
func ApplyBusinessBoost(score float64) float64 {
	return math.Min(BoostCap, score*BusinessBoost)
}

// queryOverlap is the fraction of query terms found in the category's
// name or vocabulary
func queryOverlap(queryTerms []string, cat Category) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	vocab := terms.NewSet(cat.Name + " " + strings.Join(cat.Primary, " ") + " " + strings.Join(cat.Secondary, " "))
	hits := 0
	for _, t := range queryTerms {
		if vocab.Has(t) {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTerms))
}

// Ranking is an item's affinity for every assignable category, best first
type Ranking []Match

// Rank scores the item against every assignable category, best first.
// Ties go to the lower priority value, then registry order.
func (m *Matcher) Rank(text string, mc MatchContext) Ranking {
	doc := newDocument(text, mc.Query)
	cats := m.registry.assignable()

	ranking := make(Ranking, 0, len(cats))
	for _, c := range cats {
		ranking = append(ranking, Match{Category: c, Score: m.score(doc, c, mc)})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Category.Priority != b.Category.Priority {
			return a.Category.Priority < b.Category.Priority
		}
		return m.registry.Position(a.Category.ID) < m.registry.Position(b.Category.ID)
	})
	return ranking
}

// Best returns the highest-affinity category. ok is false when the item has
// no affinity for any category.
func (r Ranking) Best() (Match, bool) {
	if len(r) == 0 || r[0].Score == 0 {
		return Match{}, false
	}
	return r[0], true
}

// Matches returns every category whose affinity reaches threshold, best
// first
func (r Ranking) Matches(threshold float64) Ranking {
	var out Ranking
	for _, mt := range r {
		if mt.Score < threshold || mt.Score == 0 {
			break
		}
		out = append(out, mt)
	}
	return out
}
