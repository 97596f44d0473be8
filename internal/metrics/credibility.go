package metrics

import (
	"regexp"
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/terms"
)

var credentialPattern = regexp.MustCompile(`(?i)\b(dr\.?|ph\.?d|m\.?d\.|prof\.?|professor|cfa|cpa|mba|m\.?sc|frcp|rn|esq\.?)\b`)

var verifiedProfilePatterns = []string{
	"orcid.org/", "linkedin.com/in/", "scholar.google", "researchgate.net/profile",
	"verified", "staff writer", "correspondent", "editor",
}

var affiliationWords = []string{
	"university", "institute", "college", "school of", "laboratory", "lab",
	"hospital", "clinic", "foundation", "department of", "center for",
	"centre for", "agency", "ministry",
}

var peerReviewPhrases = []string{
	"peer-reviewed", "peer reviewed", "published in", "journal of", "doi",
	"proceedings of", "preprint", "systematic review", "meta-analysis",
}

var transparencyPhrases = []string{
	"disclosure", "conflict of interest", "conflicts of interest", "funded by",
	"methodology", "data available", "correction", "editorial standards",
	"about the author", "we reached out", "declined to comment", "full report",
}

// CredibilityWeights weighs the credibility components
type CredibilityWeights struct {
	Domain       float64
	Author       float64
	Citations    float64
	Transparency float64
}

// DefaultCredibilityWeights are the weights used by Credibility
var DefaultCredibilityWeights = CredibilityWeights{
	Domain:       0.40,
	Author:       0.25,
	Citations:    0.20,
	Transparency: 0.15,
}

// Credibility estimates how trustworthy the item's origin is. Items with no
// domain or author get neutral-to-low defaults rather than zero.
func Credibility(in Input) int {
	w := DefaultCredibilityWeights
	text := in.lower()

	score := w.Domain*domainReputation(in.Domain) +
		w.Author*authorExpertise(in, text) +
		w.Citations*citationStrength(text, in.Citations) +
		w.Transparency*transparency(text, in.Affiliation)

	return toScore(clamp01(score))
}

// domainReputation tiers the publisher; institutional hosts are boosted and
// curated low-quality hosts penalized
func domainReputation(domain string) float64 {
	switch {
	case domain == "":
		return 0.4
	case isInstitutional(domain):
		return 1.0
	case inList(domain, lowQuality):
		return 0.15
	}
	switch Tier(domain) {
	case TierHigh:
		return 0.9
	case TierMedium:
		return 0.75
	case TierLow:
		return 0.35
	default:
		return 0.5
	}
}

// authorExpertise looks for a named author, credentials, an affiliation
// and links to a verifiable profile
func authorExpertise(in Input, text string) float64 {
	author := strings.TrimSpace(in.Author)
	if author == "" && in.Affiliation == "" {
		return 0.3
	}

	score := 0.0
	if author != "" {
		score += 0.4
	}
	if credentialPattern.MatchString(author) || credentialPattern.MatchString(in.Affiliation) {
		score += 0.3
	}
	aff := strings.ToLower(in.Affiliation)
	if aff != "" {
		score += 0.1
		if terms.CountWords(aff, affiliationWords) > 0 {
			score += 0.1
		}
	}
	lowerAuthor := strings.ToLower(author)
	for _, p := range verifiedProfilePatterns {
		if strings.Contains(lowerAuthor, p) || strings.Contains(aff, p) {
			score += 0.1
			break
		}
	}
	if in.Verified {
		score += 0.1
	}
	return clamp01(score)
}

// citationStrength scales with the number of citations and rewards
// peer-review language
func citationStrength(text string, citations []string) float64 {
	n := len(citations) + len(inlineCitePattern.FindAllString(text, -1))
	score := 0.6 * min(1.0, float64(n)/5.0)

	if terms.CountWords(text, peerReviewPhrases) > 0 || hasDOI(citations) {
		score += 0.4
	}
	return clamp01(score)
}

func hasDOI(citations []string) bool {
	for _, c := range citations {
		if doiPattern.MatchString(strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// transparency rewards institutional affiliation and disclosure language
func transparency(text, affiliation string) float64 {
	score := 0.0
	if terms.CountWords(text, affiliationWords) > 0 || terms.CountWords(strings.ToLower(affiliation), affiliationWords) > 0 {
		score += 0.4
	}
	switch n := terms.CountWords(text, transparencyPhrases); {
	case n >= 2:
		score += 0.6
	case n == 1:
		score += 0.35
	}
	return clamp01(score)
}
