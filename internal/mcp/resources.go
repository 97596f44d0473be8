package mcp

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Resource URIs
const (
	ResourceCategories = "searchlens://categories"
	ResourceRecent     = "searchlens://recent"
	ResourceStats      = "searchlens://stats"
)

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         ResourceCategories,
		Name:        "Category Registry",
		Description: "Every category with its priority and keyword vocabulary",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceRecent,
		Name:        "Recent Runs",
		Description: "Last 10 saved categorization runs",
		MimeType:    "text/plain",
	},
	{
		URI:         ResourceStats,
		Name:        "Run Statistics",
		Description: "Totals across saved runs and the most used categories",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}
