package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var itemsSchema = map[string]interface{}{
	"type":        "array",
	"description": "Search result objects with any of title, content, snippet, description, url, domain, date, author, affiliation, citations, verified and _metrics",
	"items":       map[string]interface{}{"type": "object"},
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        "categorize",
		Description: "Score search results and partition them into at most the configured number of thematic categories, best items first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The user query the results answer",
				},
				"items":   itemsSchema,
				"related": itemsSchema,
				"business": map[string]interface{}{
					"type":        "boolean",
					"description": "Force business-query handling on or off (default: detected from the query)",
				},
				"now": map[string]interface{}{
					"type":        "string",
					"description": "Reference time for recency in RFC3339 (default: now)",
				},
				"save": map[string]interface{}{
					"type":        "boolean",
					"description": "Persist the run to history",
				},
				"include_report": map[string]interface{}{
					"type":        "boolean",
					"description": "Include per-stage counts in the response",
				},
			},
			"required": []string{"query", "items"},
		},
	},
	{
		Name:        "classify_query",
		Description: "Classify a query into topical contexts and show the scoring weights it selects.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query text",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "score_items",
		Description: "Compute relevance, accuracy, credibility, recency and overall scores for items, with each item's best category.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The user query the items answer",
				},
				"items":   itemsSchema,
				"related": itemsSchema,
			},
			"required": []string{"query", "items"},
		},
	},
	{
		Name:        "list_categories",
		Description: "List the category registry in priority order.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
	{
		Name:        "list_runs",
		Description: "List saved categorization runs, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Filter by query text (case-insensitive partial match)",
				},
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Only show runs from the last N days",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 20)",
				},
			},
		},
	},
	{
		Name:        "get_run",
		Description: "Get a saved run with every categorized item.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID",
				},
			},
			"required": []string{"id"},
		},
	},
	{
		Name:        "get_stats",
		Description: "Get aggregate statistics over saved runs.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "Calculate stats for the last N days only",
				},
			},
		},
	},
}
