package database

import (
	"database/sql"
	"strings"
	"time"
)

// Run is one persisted categorization
type Run struct {
	ID            string      `json:"id"`
	Query         string      `json:"query"`
	Contexts      []string    `json:"contexts"`
	Business      bool        `json:"business"`
	ItemCount     int         `json:"item_count"`
	SkippedCount  int         `json:"skipped_count"`
	CategoryCount int         `json:"category_count"`
	FallbackCount int         `json:"fallback_count"`
	DurationMS    int64       `json:"duration_ms"`
	CreatedAt     time.Time   `json:"created_at"`
	Results       []RunResult `json:"results,omitempty"`
}

// RunResult is one item placed in one category during a run
type RunResult struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Priority     int     `json:"priority"`
	Position     int     `json:"position"`
	ItemKey      string  `json:"item_key"`
	Title        string  `json:"title"`
	URL          *string `json:"url,omitempty"`
	Affinity     int     `json:"affinity"`
	Relevance    int     `json:"relevance"`
	Accuracy     int     `json:"accuracy"`
	Credibility  int     `json:"credibility"`
	Recency      int     `json:"recency"`
	Overall      int     `json:"overall"`
}

// Stats represents aggregate statistics over stored runs
type Stats struct {
	TotalRuns     int             `json:"total_runs"`
	TotalItems    int             `json:"total_items"`
	AvgItems      float64         `json:"avg_items_per_run"`
	FallbackItems int             `json:"fallback_items"`
	CachedMetrics int             `json:"cached_metrics"`
	LastRunAt     *time.Time      `json:"last_run_at,omitempty"`
	TopCategories []CategoryCount `json:"top_categories"`
}

// CategoryCount is how many stored results a category has received
type CategoryCount struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Items        int    `json:"items"`
}

// ListOptions contains options for listing runs
type ListOptions struct {
	Since  *time.Time
	Query  *string
	Limit  int
	Offset int
}

func joinContexts(contexts []string) string {
	return strings.Join(contexts, ",")
}

func splitContexts(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
