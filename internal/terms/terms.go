// Package terms holds the text helpers shared by the scorers and the
// category matcher.
package terms

import (
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "how": true, "i": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "was": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"why": true, "will": true, "with": true, "about": true, "vs": true, "do": true,
	"does": true, "can": true, "should": true, "my": true, "our": true, "your": true,
}

// IsStopword reports whether w carries no topical meaning
func IsStopword(w string) bool {
	return stopwords[w]
}

// Tokenize lower-cases s and splits it into words, trimming punctuation
func Tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// Significant returns the unique non-stopword tokens of s in first-seen
// order
func Significant(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range Tokenize(s) {
		if IsStopword(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Stem strips common English suffixes. It is deliberately crude: it only
// has to make "trends" meet "trend" and "investing" meet "invest".
func Stem(w string) string {
	switch {
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		return w[:len(w)-3]
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && hasAnySuffix(w, "xes", "zes", "ches", "shes"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// Set is a bag of stemmed tokens for fast membership checks
type Set map[string]bool

// NewSet builds a Set over the stemmed tokens of s
func NewSet(s string) Set {
	set := make(Set)
	for _, t := range Tokenize(s) {
		set[t] = true
		set[Stem(t)] = true
	}
	return set
}

// Has reports whether the set contains w or its stem
func (s Set) Has(w string) bool {
	return s[w] || s[Stem(w)]
}

// ContainsWord checks if text contains the word with word boundary
// awareness. Multi-word phrases use a plain substring check. Both arguments
// are expected to be lower-cased.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	if strings.Contains(word, " ") {
		return strings.Contains(text, word)
	}

	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx == -1 {
			return false
		}
		idx += start
		end := idx + len(word)

		beforeOK := idx == 0 || !isWordChar(text[idx-1])
		afterOK := end >= len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

// CountWords returns how many of the given words occur in text
func CountWords(text string, words []string) int {
	n := 0
	for _, w := range words {
		if ContainsWord(text, w) {
			n++
		}
	}
	return n
}

// Occurrences counts non-overlapping occurrences of word in text, respecting
// word boundaries for single words
func Occurrences(text, word string) int {
	if word == "" {
		return 0
	}
	n := 0
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx == -1 {
			return n
		}
		idx += start
		end := idx + len(word)
		if strings.Contains(word, " ") ||
			((idx == 0 || !isWordChar(text[idx-1])) && (end >= len(text) || !isWordChar(text[end]))) {
			n++
		}
		start = end
	}
}

// Bigrams returns adjacent word pairs of the given tokens
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
