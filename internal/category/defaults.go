package category

// Well-known category ids
const (
	IDInvestmentTrends = "investment-trends"
	IDOther            = "other-results"
	IDAll              = "all-results"
)

// DefaultCategories returns a fresh copy of the built-in catalog
func DefaultCategories() []Category {
	return []Category{
		{
			ID: IDInvestmentTrends, Name: "Investment Trends", Priority: 0, Business: true,
			Primary: []string{
				"investment", "investing", "investor", "funding", "venture capital", "vc",
				"capital", "valuation", "ipo", "portfolio", "fundraise", "private equity",
			},
			Secondary: []string{
				"growth", "trend", "market", "returns", "round", "startup", "forecast",
				"surge", "deal", "billion", "allocation", "asset",
			},
		},
		{
			ID: "market-analysis", Name: "Market Analysis", Priority: 1, Business: true,
			Primary: []string{
				"market", "stock", "shares", "index", "earnings", "analyst", "trading",
				"market cap", "bull", "bear", "nasdaq", "s&p",
			},
			Secondary: []string{
				"forecast", "demand", "sector", "quarter", "volatility", "outlook",
				"price", "rally", "decline", "estimate",
			},
		},
		{
			ID: "industry-insights", Name: "Industry Insights", Priority: 2, Business: true,
			Primary: []string{
				"industry", "sector", "companies", "enterprise", "competition",
				"market share", "competitor", "landscape", "adoption",
			},
			Secondary: []string{
				"strategy", "leaders", "disruption", "players", "segment", "vendors",
				"benchmark", "report", "survey",
			},
		},
		{
			ID: "business-strategy", Name: "Business Strategy", Priority: 3, Business: true,
			Primary: []string{
				"strategy", "management", "leadership", "operations", "business model",
				"growth strategy", "go-to-market", "restructuring", "merger", "acquisition",
			},
			Secondary: []string{
				"executive", "ceo", "planning", "efficiency", "transformation",
				"partnership", "expansion", "decision",
			},
		},
		{
			ID: "financial-performance", Name: "Financial Performance", Priority: 4, Business: true,
			Primary: []string{
				"revenue", "profit", "quarterly", "margin", "balance sheet", "cash flow",
				"net income", "guidance", "ebitda", "fiscal",
			},
			Secondary: []string{
				"results", "growth", "loss", "year-over-year", "shareholders", "dividend",
				"outlook", "report",
			},
		},
		{
			ID: "startups-innovation", Name: "Startups & Innovation", Priority: 5, Business: true,
			Primary: []string{
				"startup", "founder", "innovation", "seed", "accelerator", "unicorn",
				"series a", "series b", "incubator", "early-stage",
			},
			Secondary: []string{
				"launch", "product", "disrupt", "pitch", "entrepreneur", "scale",
				"prototype", "breakthrough",
			},
		},
		{
			ID: "technology-ai", Name: "Technology & AI", Priority: 6,
			Primary: []string{
				"ai", "artificial intelligence", "machine learning", "llm", "neural",
				"software", "algorithm", "automation", "deep learning", "model",
				"generative", "robotics",
			},
			Secondary: []string{
				"data", "cloud", "compute", "gpu", "platform", "api", "open source",
				"chip", "training", "inference",
			},
		},
		{
			ID: "research-studies", Name: "Research & Studies", Priority: 7,
			Primary: []string{
				"study", "research", "paper", "journal", "findings", "experiment",
				"peer-reviewed", "researchers", "meta-analysis", "trial",
			},
			Secondary: []string{
				"university", "data", "sample", "evidence", "hypothesis", "published",
				"analysis", "results", "methodology",
			},
		},
		{
			ID: "health-medicine", Name: "Health & Medicine", Priority: 8,
			Primary: []string{
				"health", "medical", "patient", "treatment", "clinical", "disease",
				"drug", "vaccine", "therapy", "diagnosis", "hospital",
			},
			Secondary: []string{
				"doctor", "symptoms", "risk", "care", "fda", "outcomes", "prevention",
				"wellness", "nutrition",
			},
		},
		{
			ID: "policy-regulation", Name: "Policy & Regulation", Priority: 9,
			Primary: []string{
				"regulation", "policy", "law", "government", "compliance", "legislation",
				"regulator", "congress", "parliament", "ban", "antitrust",
			},
			Secondary: []string{
				"rules", "court", "federal", "agency", "lawmakers", "enforcement",
				"guidelines", "framework",
			},
		},
		{
			ID: "economic-outlook", Name: "Economic Outlook", Priority: 10, Business: true,
			Primary: []string{
				"economy", "economic", "inflation", "interest rate", "gdp", "recession",
				"unemployment", "central bank", "federal reserve", "monetary",
			},
			Secondary: []string{
				"forecast", "growth", "jobs", "prices", "consumer spending", "outlook",
				"slowdown", "tariff",
			},
		},
		{
			ID: "cybersecurity", Name: "Cybersecurity", Priority: 11,
			Primary: []string{
				"security", "breach", "vulnerability", "ransomware", "malware",
				"encryption", "hacking", "cyberattack", "phishing", "exploit",
			},
			Secondary: []string{
				"attack", "patch", "threat", "data leak", "authentication", "privacy",
				"incident", "zero-day",
			},
		},
		{
			ID: "energy-climate", Name: "Energy & Climate", Priority: 12,
			Primary: []string{
				"energy", "climate", "renewable", "solar", "emissions", "carbon", "oil",
				"battery", "wind power", "electric vehicle", "net zero",
			},
			Secondary: []string{
				"grid", "gas", "sustainability", "warming", "fossil", "hydrogen",
				"efficiency", "power",
			},
		},
		{
			ID: "consumer-trends", Name: "Consumer Trends", Priority: 13,
			Primary: []string{
				"consumer", "retail", "shopping", "e-commerce", "brand", "customers",
				"spending", "shoppers", "subscription",
			},
			Secondary: []string{
				"preferences", "behavior", "sales", "loyalty", "marketing", "demand",
				"trend", "survey",
			},
		},
		{
			ID: "breaking-news", Name: "Breaking News", Priority: 14,
			Primary: []string{
				"breaking", "announced", "today", "latest", "reported", "yesterday",
				"this week", "just in", "developing",
			},
			Secondary: []string{
				"update", "statement", "officials", "press release", "confirmed",
				"news", "according to",
			},
		},
		{
			ID: "expert-opinions", Name: "Expert Opinions", Priority: 15,
			Primary: []string{
				"opinion", "expert", "commentary", "interview", "perspective", "op-ed",
				"editorial", "viewpoint", "argues",
			},
			Secondary: []string{
				"believes", "says", "analysis", "insight", "predicts", "warns",
				"according to", "view",
			},
		},
		{
			ID: "case-studies", Name: "Case Studies", Priority: 16,
			Primary: []string{
				"case study", "implementation", "success story", "lessons learned",
				"deployment", "pilot", "real-world", "customer story",
			},
			Secondary: []string{
				"example", "results", "challenge", "solution", "outcome", "approach",
				"rollout",
			},
		},
		{
			ID: "tutorials-guides", Name: "Tutorials & Guides", Priority: 17,
			Primary: []string{
				"how to", "guide", "tutorial", "step-by-step", "tips", "introduction",
				"beginner", "walkthrough", "explained",
			},
			Secondary: []string{
				"learn", "example", "basics", "best practices", "checklist", "overview",
				"setup",
			},
		},
		{
			ID: IDOther, Name: "Other Results", Priority: 90, Fallback: true,
		},
		{
			ID: IDAll, Name: "All Results", Priority: 100, CatchAll: true,
		},
	}
}

// Default returns a registry over the built-in catalog
func Default() *Registry {
	return MustRegistry(DefaultCategories())
}
