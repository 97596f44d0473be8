package metrics

import (
	"regexp"
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/terms"
)

var (
	numberPattern     = regexp.MustCompile(`\b\d[\d,]*\b`)
	decimalPattern    = regexp.MustCompile(`\b\d+\.\d+\b`)
	percentPattern    = regexp.MustCompile(`\d+(\.\d+)?\s?(%|percent)`)
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthPattern      = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b`)
	inlineCitePattern = regexp.MustCompile(`\[\d+\]|\(\w+(\s+et al\.?)?,?\s+(19|20)\d{2}\)`)
	doiPattern        = regexp.MustCompile(`\b10\.\d{4,9}/\S+`)
	urlPattern        = regexp.MustCompile(`^https?://[^\s/]+\.[^\s]+`)
)

var attributionPhrases = []string{
	"according to", "source:", "sources:", "cited", "reported by", "data from",
	"study by", "survey by", "figures from", "as reported",
}

var nuanceMarkers = []string{
	"however", "although", "on the other hand", "may", "might", "suggests",
	"estimated", "approximately", "likely", "in contrast", "caveat", "limitations",
}

var absoluteMarkers = []string{
	"always", "never", "guaranteed", "100% proven", "miracle", "secret",
	"shocking", "you won't believe", "everyone knows", "undeniable",
}

var significancePhrases = []string{
	"statistically significant", "p <", "p<", "p-value", "confidence interval",
	"margin of error", "sample size", "standard deviation", "randomized",
	"control group", "regression",
}

// AccuracyWeights weighs the accuracy components
type AccuracyWeights struct {
	DataVerification   float64
	SourceReliability  float64
	Consistency        float64
	ExternalValidation float64
}

// DefaultAccuracyWeights are the weights used by Accuracy
var DefaultAccuracyWeights = AccuracyWeights{
	DataVerification:   0.30,
	SourceReliability:  0.25,
	Consistency:        0.25,
	ExternalValidation: 0.20,
}

// Accuracy estimates how factually sound an item is. The reported value
// never drops below AccuracyFloor, even when no signal is present.
func Accuracy(in Input) int {
	return max(AccuracyFloor, RawAccuracy(in))
}

// RawAccuracy is the computed accuracy before the floor is applied
func RawAccuracy(in Input) int {
	w := DefaultAccuracyWeights
	text := in.lower()

	score := w.DataVerification*dataVerification(text, in.Citations) +
		w.SourceReliability*sourceReliability(in.Domain) +
		w.Consistency*consistency(text, in.Citations) +
		w.ExternalValidation*externalValidation(in, text)

	return toScore(clamp01(score))
}

// dataVerification rewards concrete, checkable claims
func dataVerification(text string, citations []string) float64 {
	score := 0.0
	if numberPattern.MatchString(text) {
		score += 0.2
	}
	if yearPattern.MatchString(text) || monthPattern.MatchString(text) {
		score += 0.2
	}
	if decimalPattern.MatchString(text) {
		score += 0.15
	}
	if percentPattern.MatchString(text) {
		score += 0.15
	}

	cites := len(citations) + len(inlineCitePattern.FindAllString(text, -1)) + terms.CountWords(text, attributionPhrases)
	switch {
	case cites >= 3:
		score += 0.3
	case cites >= 1:
		score += 0.2
	}
	return clamp01(score)
}

// sourceReliability is the static three-tier publisher lookup
func sourceReliability(domain string) float64 {
	switch Tier(domain) {
	case TierHigh:
		return 1.0
	case TierMedium:
		return 0.75
	case TierLow:
		return 0.35
	default:
		return 0.5
	}
}

// consistency looks for hedged, qualified writing and well-sourced
// citations, and penalizes absolute or sensational claims
func consistency(text string, citations []string) float64 {
	score := 0.6

	nuance := terms.CountWords(text, nuanceMarkers)
	absolute := terms.CountWords(text, absoluteMarkers)
	switch {
	case nuance >= 2:
		score += 0.2
	case nuance == 1:
		score += 0.1
	}
	score -= 0.1 * float64(min(absolute, 4))

	score += 0.2 * citationQuality(citations)
	return clamp01(score)
}

// citationQuality tiers a citation list: DOIs and high-tier publishers
// count fully, medium-tier publishers half, anything else a little
func citationQuality(citations []string) float64 {
	if len(citations) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range citations {
		lc := strings.ToLower(strings.TrimSpace(c))
		switch {
		case doiPattern.MatchString(lc):
			total += 1.0
		case urlPattern.MatchString(lc):
			switch Tier(hostOf(lc)) {
			case TierHigh:
				total += 1.0
			case TierMedium:
				total += 0.5
			default:
				total += 0.2
			}
		default:
			total += 0.2
		}
	}
	return clamp01(total / float64(len(citations)))
}

// externalValidation combines fact-checker membership, citation
// validity, agreement with related results and statistical language
func externalValidation(in Input, text string) float64 {
	score := 0.0
	if isFactChecker(in.Domain, in.Citations) {
		score += 0.3
	}
	if validCitations(in.Citations) > 0 {
		score += 0.2 * float64(validCitations(in.Citations)) / float64(len(in.Citations))
	}
	score += 0.3 * crossReference(text, in.Related)

	switch sig := terms.CountWords(text, significancePhrases); {
	case sig >= 2:
		score += 0.2
	case sig == 1:
		score += 0.1
	}
	return clamp01(score)
}

// validCitations counts citations that look resolvable: a URL or a DOI
func validCitations(citations []string) int {
	n := 0
	for _, c := range citations {
		lc := strings.ToLower(strings.TrimSpace(c))
		if urlPattern.MatchString(lc) || doiPattern.MatchString(lc) {
			n++
		}
	}
	return n
}

// crossReference is the fraction of related results that share enough of
// this item's vocabulary to corroborate it
func crossReference(text string, related []string) float64 {
	if len(related) == 0 {
		return 0
	}
	own := terms.Significant(text)
	if len(own) == 0 {
		return 0
	}

	agreeing := 0
	considered := 0
	for _, r := range related {
		rs := terms.NewSet(r)
		if len(rs) == 0 || strings.EqualFold(r, text) {
			continue
		}
		considered++
		shared := 0
		for _, t := range own {
			if rs.Has(t) {
				shared++
			}
		}
		if float64(shared)/float64(len(own)) >= 0.2 {
			agreeing++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(agreeing) / float64(considered)
}

// hostOf extracts a lower-cased host without "www." from a URL string
func hostOf(u string) string {
	u = strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
	if i := strings.IndexAny(u, "/?#"); i != -1 {
		u = u[:i]
	}
	return strings.TrimPrefix(u, "www.")
}
