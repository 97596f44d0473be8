package querycontext

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Context represents a topical classification of a query
type Context string

const (
	Financial Context = "financial"
	Business  Context = "business"
	Medical   Context = "medical"
	News      Context = "news"
	Technical Context = "technical"
	Academic  Context = "academic"
	General   Context = "general"
)

// AllContexts returns the keyword-backed contexts in canonical order.
// General is not listed; it is the fallback when nothing matches.
func AllContexts() []Context {
	return []Context{Financial, Business, Medical, News, Technical, Academic}
}

var contextKeywords = map[Context][]string{
	Financial: {
		"invest", "stock", "market", "finance", "financial", "fund", "funding",
		"portfolio", "dividend", "equity", "bond", "interest rate", "inflation",
		"revenue", "profit", "earnings", "valuation", "ipo", "crypto", "bitcoin",
		"trading", "asset", "capital", "venture", "vc", "roi", "bank",
	},
	Business: {
		"business", "company", "companies", "startup", "industry", "enterprise",
		"strategy", "management", "growth", "trend", "competitor", "competition",
		"customer", "b2b", "b2c", "merger", "acquisition", "partnership",
		"market share", "supply chain", "operations", "leadership", "sales",
	},
	Medical: {
		"health", "medical", "medicine", "disease", "treatment", "patient",
		"clinical", "drug", "vaccine", "symptom", "diagnosis", "therapy",
		"hospital", "doctor", "cancer", "diabetes", "virus", "pharma",
		"mental health", "nutrition",
	},
	News: {
		"news", "latest", "breaking", "today", "update", "announce",
		"report", "headline", "this week", "yesterday", "recent", "election",
		"government", "policy", "crisis",
	},
	Technical: {
		"software", "code", "programming", "api", "algorithm", "database",
		"framework", "library", "cloud", "kubernetes", "docker", "devops",
		"security", "network", "protocol", "architecture", "machine learning",
		"ai", "llm", "neural", "compiler", "hardware", "open source",
	},
	Academic: {
		"research", "study", "studies", "paper", "journal", "thesis",
		"peer review", "peer-reviewed", "university", "academic", "scholar",
		"citation", "meta-analysis", "hypothesis", "experiment", "theory",
		"literature review", "dissertation",
	},
}

// Classify labels a query with the contexts whose keyword lists it hits,
// most-matched first. A query with no hits is General.
func Classify(query string) []Context {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Context{General}
	}

	type hit struct {
		ctx   Context
		count int
	}

	var hits []hit
	for _, ctx := range AllContexts() {
		count := 0
		for _, kw := range contextKeywords[ctx] {
			if containsTerm(q, kw) {
				count++
			}
		}
		if count >= 1 {
			hits = append(hits, hit{ctx: ctx, count: count})
		}
	}

	if len(hits) == 0 {
		return []Context{General}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].count > hits[j].count
	})

	contexts := make([]Context, len(hits))
	for i, h := range hits {
		contexts[i] = h.ctx
	}
	return contexts
}

// Primary returns the first context, defaulting to General
func Primary(contexts []Context) Context {
	if len(contexts) == 0 {
		return General
	}
	return contexts[0]
}

// Has reports whether ctx is among contexts
func Has(contexts []Context, ctx Context) bool {
	for _, c := range contexts {
		if c == ctx {
			return true
		}
	}
	return false
}

// IsBusiness reports whether the query reads as business or financial
func IsBusiness(contexts []Context) bool {
	return Has(contexts, Business) || Has(contexts, Financial)
}

// ParseContext maps a string to a known context
func ParseContext(s string) (Context, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == string(General) {
		return General, nil
	}
	for _, c := range AllContexts() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown context %q", s)
}

// containsTerm matches short keywords on word boundaries so that "ai" does
// not fire on "said"; longer keywords match as substrings ("invest" hits
// "investment")
func containsTerm(text, kw string) bool {
	if len(kw) > 3 || strings.Contains(kw, " ") {
		return strings.Contains(text, kw)
	}
	start := 0
	for {
		idx := strings.Index(text[start:], kw)
		if idx == -1 {
			return false
		}
		idx += start
		end := idx + len(kw)
		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		afterOK := end >= len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Weights is a scoring weight profile. Fields sum to 1.0.
type Weights struct {
	Relevance   float64 `toml:"relevance" json:"relevance"`
	Accuracy    float64 `toml:"accuracy" json:"accuracy"`
	Credibility float64 `toml:"credibility" json:"credibility"`
}

// Sum returns the total of the three weights
func (w Weights) Sum() float64 {
	return w.Relevance + w.Accuracy + w.Credibility
}

// Validate checks the profile is non-negative and sums to 1.0
func (w Weights) Validate() error {
	if w.Relevance < 0 || w.Accuracy < 0 || w.Credibility < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", w.Sum())
	}
	return nil
}

// DefaultWeights is the profile used for general queries
var DefaultWeights = Weights{Relevance: 0.35, Accuracy: 0.35, Credibility: 0.30}

// Profiles maps each context to its weight profile
type Profiles map[Context]Weights

// DefaultProfiles returns the built-in weight profiles
func DefaultProfiles() Profiles {
	return Profiles{
		General:   DefaultWeights,
		Business:  DefaultWeights,
		Financial: {Relevance: 0.25, Accuracy: 0.45, Credibility: 0.30},
		News:      {Relevance: 0.45, Accuracy: 0.30, Credibility: 0.25},
		Academic:  {Relevance: 0.30, Accuracy: 0.30, Credibility: 0.40},
		Medical:   {Relevance: 0.30, Accuracy: 0.40, Credibility: 0.30},
		Technical: {Relevance: 0.40, Accuracy: 0.35, Credibility: 0.25},
	}
}

// For selects the profile of the first context, falling back to the
// general profile and then to DefaultWeights
func (p Profiles) For(contexts []Context) Weights {
	if w, ok := p[Primary(contexts)]; ok {
		return w
	}
	if w, ok := p[General]; ok {
		return w
	}
	return DefaultWeights
}

// Merge returns a copy of p with the non-zero profiles of override applied
func (p Profiles) Merge(override Profiles) Profiles {
	merged := make(Profiles, len(p)+len(override))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range override {
		if v.Sum() > 0 {
			merged[k] = v
		}
	}
	return merged
}

// Validate checks every profile
func (p Profiles) Validate() error {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := ParseContext(k); err != nil {
			return err
		}
		if err := p[Context(k)].Validate(); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}
