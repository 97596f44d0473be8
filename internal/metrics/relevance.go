package metrics

import (
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/querycontext"
	"github.com/vijay-prabhu/searchlens/internal/terms"
)

// relevanceParts weighs the relevance components. They intentionally sum
// to slightly more than 1.0; the total is capped at 100.
type relevanceParts struct {
	TermMatch    float64
	ExactPhrase  float64
	TopicOverlap float64
	Domain       float64
	KeyPhrase    float64
	Recency      float64
	GenericBoost float64
}

// relevanceWeights are the weights used by Relevance
var relevanceWeights = relevanceParts{
	TermMatch:    0.35,
	ExactPhrase:  0.15,
	TopicOverlap: 0.15,
	Domain:       0.10,
	KeyPhrase:    0.20,
	Recency:      0.10,
	GenericBoost: 0.15,
}

// genericTerms mark broad queries whose results deserve a compensation
// boost, since no result can match them closely
var genericTerms = map[string]bool{
	"news": true, "latest": true, "best": true, "top": true, "guide": true,
	"overview": true, "info": true, "information": true, "trends": true,
	"trend": true, "update": true, "updates": true, "tips": true,
	"introduction": true, "basics": true, "review": true, "reviews": true,
}

// synonyms widens key-phrase matching to closely related vocabulary
var synonyms = map[string][]string{
	"ai":          {"artificial intelligence", "machine learning", "llm", "neural", "genai"},
	"investment":  {"invest", "funding", "capital", "vc", "venture", "financing"},
	"invest":      {"investment", "funding", "capital"},
	"funding":     {"investment", "capital", "raise", "round"},
	"trend":       {"growth", "surge", "rise", "shift", "outlook", "forecast"},
	"growth":      {"surge", "increase", "rise", "expansion"},
	"market":      {"industry", "sector", "economy"},
	"stock":       {"share", "equity", "ticker"},
	"health":      {"medical", "wellness", "clinical"},
	"study":       {"research", "paper", "trial"},
	"research":    {"study", "paper", "findings"},
	"security":    {"vulnerability", "breach", "cyber"},
	"startup":     {"founder", "seed", "early-stage"},
	"crypto":      {"bitcoin", "ethereum", "blockchain"},
	"climate":     {"emissions", "carbon", "warming"},
	"regulation":  {"policy", "law", "compliance", "regulator"},
	"performance": {"benchmark", "latency", "throughput"},
}

// Relevance scores how well an item answers the query. Items without a
// date contribute a neutral age factor; items without a domain contribute a
// neutral alignment factor.
func Relevance(in Input) int {
	return relevanceWith(in, relevanceWeights)
}

func relevanceWith(in Input, w relevanceParts) int {
	text := in.lower()
	queryTerms := terms.Significant(in.Query)
	if len(queryTerms) == 0 || text == "" {
		// Nothing to match against: the age factor is all we know
		return toScore(w.Recency * ageDecay(in))
	}

	termScore := termMatch(text, strings.ToLower(in.Title), queryTerms)

	score := w.TermMatch*termScore +
		w.ExactPhrase*exactPhrase(text, queryTerms) +
		w.TopicOverlap*topicOverlap(in.Contexts, text) +
		w.Domain*domainAlignment(in.Domain, in.Contexts) +
		w.KeyPhrase*keyPhraseOverlap(text, queryTerms) +
		w.Recency*ageDecay(in)

	if isGenericQuery(queryTerms) {
		boost := 0.3
		if termScore > 0 {
			boost = 1.0
		}
		score += w.GenericBoost * boost
	}

	return toScore(clamp01(score))
}

// termMatch blends the fraction of query terms present in the full text
// with the fraction present in the title
func termMatch(text, title string, queryTerms []string) float64 {
	textSet := terms.NewSet(text)
	titleSet := terms.NewSet(title)

	var inText, inTitle int
	for _, t := range queryTerms {
		if textSet.Has(t) {
			inText++
		}
		if titleSet.Has(t) {
			inTitle++
		}
	}
	n := float64(len(queryTerms))
	return clamp01(0.8*float64(inText)/n + 0.4*float64(inTitle)/n)
}

// exactPhrase is 1.0 when the whole query appears verbatim, 0.5 when at
// least one adjacent query pair does
func exactPhrase(text string, queryTerms []string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	if len(queryTerms) > 1 && strings.Contains(text, strings.Join(queryTerms, " ")) {
		return 1.0
	}
	for _, bg := range terms.Bigrams(queryTerms) {
		if strings.Contains(text, bg) {
			return 0.5
		}
	}
	return 0
}

// topicOverlap compares the query's contexts with the contexts the content
// itself reads as
func topicOverlap(queryContexts []querycontext.Context, text string) float64 {
	if len(queryContexts) == 0 || querycontext.Primary(queryContexts) == querycontext.General {
		return 0.5
	}
	contentContexts := querycontext.Classify(text)
	shared := 0
	for _, c := range queryContexts {
		if querycontext.Has(contentContexts, c) {
			shared++
		}
	}
	return float64(shared) / float64(len(queryContexts))
}

// domainAlignment rewards publishers known to cover the query's topic
func domainAlignment(domain string, queryContexts []querycontext.Context) float64 {
	topics := topicsForDomain(domain)
	if len(topics) == 0 {
		return 0.5
	}
	if querycontext.Primary(queryContexts) == querycontext.General {
		return 0.6
	}
	for _, t := range topics {
		if querycontext.Has(queryContexts, t) {
			return 1.0
		}
	}
	return 0.3
}

// keyPhraseOverlap is the fraction of query terms whose meaning appears in
// the text, either literally or through a close synonym
func keyPhraseOverlap(text string, queryTerms []string) float64 {
	set := terms.NewSet(text)
	hits := 0
	for _, t := range queryTerms {
		if set.Has(t) {
			hits++
			continue
		}
		for _, syn := range synonymsFor(t) {
			if terms.ContainsWord(text, syn) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(queryTerms))
}

func synonymsFor(t string) []string {
	if s, ok := synonyms[t]; ok {
		return s
	}
	return synonyms[terms.Stem(t)]
}

// isGenericQuery reports short or all-common queries
func isGenericQuery(queryTerms []string) bool {
	if len(queryTerms) <= 2 {
		return true
	}
	for _, t := range queryTerms {
		if !genericTerms[t] {
			return false
		}
	}
	return true
}
