package metrics

import (
	"strings"

	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// SourceTier ranks how reliable a publisher has historically been
type SourceTier int

const (
	TierUnknown SourceTier = iota
	TierHigh
	TierMedium
	TierLow
)

var tierHigh = []string{
	"reuters.com", "apnews.com", "bbc.co.uk", "bbc.com", "nature.com",
	"science.org", "sciencemag.org", "nih.gov", "who.int", "cdc.gov",
	"nejm.org", "thelancet.com", "bmj.com", "bloomberg.com", "wsj.com",
	"ft.com", "economist.com", "sec.gov", "federalreserve.gov", "imf.org",
	"worldbank.org", "arxiv.org", "ieee.org", "acm.org", "jamanetwork.com",
	"pubmed.ncbi.nlm.nih.gov",
}

var tierMedium = []string{
	"nytimes.com", "washingtonpost.com", "theguardian.com", "cnbc.com",
	"forbes.com", "techcrunch.com", "wired.com", "arstechnica.com",
	"wikipedia.org", "investopedia.com", "mayoclinic.org", "webmd.com",
	"hbr.org", "mckinsey.com", "marketwatch.com", "businessinsider.com",
	"theverge.com", "npr.org", "cnn.com", "axios.com", "politico.com",
	"springer.com", "sciencedirect.com", "github.com", "stackoverflow.com",
	"statista.com", "gartner.com", "pwc.com", "deloitte.com",
}

var tierLow = []string{
	"medium.com", "substack.com", "blogspot.com", "wordpress.com",
	"reddit.com", "quora.com", "twitter.com", "x.com", "facebook.com",
	"tiktok.com", "pinterest.com", "tumblr.com",
}

// lowQuality domains are penalized for credibility regardless of tier
var lowQuality = []string{
	"dailymail.co.uk", "thesun.co.uk", "buzzfeed.com", "infowars.com",
	"naturalnews.com", "breitbart.com", "theonion.com", "clickhole.com",
	"ehow.com", "answers.com",
}

var factCheckers = []string{
	"snopes.com", "politifact.com", "factcheck.org", "fullfact.org",
	"apnews.com/hub/ap-fact-check", "reuters.com/fact-check", "leadstories.com",
}

// domainTopics maps well-known publishers to the query contexts they cover
var domainTopics = map[string][]querycontext.Context{
	"bloomberg.com":       {querycontext.Financial, querycontext.Business, querycontext.News},
	"wsj.com":             {querycontext.Financial, querycontext.Business, querycontext.News},
	"ft.com":              {querycontext.Financial, querycontext.Business},
	"cnbc.com":            {querycontext.Financial, querycontext.Business, querycontext.News},
	"marketwatch.com":     {querycontext.Financial},
	"investopedia.com":    {querycontext.Financial},
	"sec.gov":             {querycontext.Financial},
	"forbes.com":          {querycontext.Business, querycontext.Financial},
	"hbr.org":             {querycontext.Business},
	"mckinsey.com":        {querycontext.Business},
	"businessinsider.com": {querycontext.Business, querycontext.News},
	"crunchbase.com":      {querycontext.Business, querycontext.Financial},
	"nih.gov":             {querycontext.Medical, querycontext.Academic},
	"who.int":             {querycontext.Medical},
	"cdc.gov":             {querycontext.Medical},
	"mayoclinic.org":      {querycontext.Medical},
	"webmd.com":           {querycontext.Medical},
	"nejm.org":            {querycontext.Medical, querycontext.Academic},
	"thelancet.com":       {querycontext.Medical, querycontext.Academic},
	"github.com":          {querycontext.Technical},
	"stackoverflow.com":   {querycontext.Technical},
	"techcrunch.com":      {querycontext.Technical, querycontext.Business, querycontext.News},
	"arstechnica.com":     {querycontext.Technical, querycontext.News},
	"wired.com":           {querycontext.Technical, querycontext.News},
	"theverge.com":        {querycontext.Technical, querycontext.News},
	"arxiv.org":           {querycontext.Academic, querycontext.Technical},
	"nature.com":          {querycontext.Academic, querycontext.Medical},
	"science.org":         {querycontext.Academic},
	"ieee.org":            {querycontext.Academic, querycontext.Technical},
	"acm.org":             {querycontext.Academic, querycontext.Technical},
	"springer.com":        {querycontext.Academic},
	"sciencedirect.com":   {querycontext.Academic},
	"scholar.google.com":  {querycontext.Academic},
	"reuters.com":         {querycontext.News, querycontext.Financial},
	"apnews.com":          {querycontext.News},
	"bbc.com":             {querycontext.News},
	"bbc.co.uk":           {querycontext.News},
	"nytimes.com":         {querycontext.News},
	"theguardian.com":     {querycontext.News},
	"cnn.com":             {querycontext.News},
	"npr.org":             {querycontext.News},
}

// matchesDomain reports whether domain equals pattern or is a subdomain of it
func matchesDomain(domain, pattern string) bool {
	if domain == "" {
		return false
	}
	if domain == pattern {
		return true
	}
	return strings.HasSuffix(domain, "."+pattern)
}

func inList(domain string, list []string) bool {
	for _, p := range list {
		if strings.Contains(p, "/") {
			continue
		}
		if matchesDomain(domain, p) {
			return true
		}
	}
	return false
}

// Tier returns the reliability tier of a domain
func Tier(domain string) SourceTier {
	switch {
	case domain == "":
		return TierUnknown
	case inList(domain, tierHigh):
		return TierHigh
	case isInstitutional(domain):
		return TierHigh
	case inList(domain, tierMedium):
		return TierMedium
	case inList(domain, tierLow), inList(domain, lowQuality):
		return TierLow
	}
	return TierUnknown
}

// isInstitutional reports .gov, .edu and .mil hosts, including country
// variants like .gov.uk and .ac.uk
func isInstitutional(domain string) bool {
	for _, suffix := range []string{".gov", ".edu", ".mil", ".int"} {
		if strings.HasSuffix(domain, suffix) || strings.Contains(domain, suffix+".") {
			return true
		}
	}
	return strings.Contains(domain, ".ac.")
}

// isFactChecker reports whether the domain or any citation points at a
// fact-checking organisation
func isFactChecker(domain string, citations []string) bool {
	if inList(domain, factCheckers) {
		return true
	}
	for _, c := range citations {
		lc := strings.ToLower(c)
		for _, fc := range factCheckers {
			if strings.Contains(lc, fc) {
				return true
			}
		}
	}
	return false
}

// topicsForDomain returns the contexts a domain is known to cover
func topicsForDomain(domain string) []querycontext.Context {
	if domain == "" {
		return nil
	}
	for pattern, topics := range domainTopics {
		if matchesDomain(domain, pattern) {
			return topics
		}
	}
	switch {
	case strings.HasSuffix(domain, ".edu"), strings.Contains(domain, ".ac."):
		return []querycontext.Context{querycontext.Academic}
	case strings.HasSuffix(domain, ".gov"):
		return []querycontext.Context{querycontext.News}
	}
	return nil
}
