package filter

import "strings"

// matchAny returns the first pattern that matches domain
func matchAny(domain string, patterns []string) (string, bool) {
	if domain == "" {
		return "", false
	}
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern != "" && matchesDomainPattern(domain, pattern) {
			return pattern, true
		}
	}
	return "", false
}

// matchesDomainPattern checks if a pattern matches the domain
func matchesDomainPattern(domain, pattern string) bool {
	pattern = strings.TrimPrefix(pattern, "www.")

	// Exact domain match
	if domain == pattern {
		return true
	}

	// Subdomain (e.g., "news.example.com" matches "example.com")
	if strings.HasSuffix(domain, "."+pattern) {
		return true
	}

	// Bare name without a TLD (e.g., "medium" matches "medium.com")
	if !strings.Contains(pattern, ".") {
		for _, label := range strings.Split(domain, ".") {
			if label == pattern {
				return true
			}
		}
	}

	return false
}
