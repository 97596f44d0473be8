package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/content"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/output"
)

// ErrNoDatabase is returned by history tools when persistence is disabled
var ErrNoDatabase = errors.New("run history is disabled (no database configured)")

func (s *Server) registerHandlers() {
	s.handlers["categorize"] = s.handleCategorize
	s.handlers["classify_query"] = s.handleClassifyQuery
	s.handlers["score_items"] = s.handleScoreItems
	s.handlers["list_categories"] = s.handleListCategories
	s.handlers["list_runs"] = s.handleListRuns
	s.handlers["get_run"] = s.handleGetRun
	s.handlers["get_stats"] = s.handleGetStats
}

// sourceItems decodes items and drops those from blocked sources
func (s *Server) sourceItems(raw json.RawMessage) ([]content.Item, error) {
	items, err := decodeItems(raw)
	if err != nil {
		return nil, err
	}
	kept, stats := s.filter.ApplyBatch(items)
	if stats.Dropped() > 0 {
		s.logger.Debug("filtered results", "total", stats.Total, "dropped", stats.Dropped())
	}
	return kept, nil
}

// decodeItems accepts the items argument leniently: non-object elements are
// skipped and a non-array value yields no items
func decodeItems(raw json.RawMessage) ([]content.Item, error) {
	if len(raw) == 0 {
		return []content.Item{}, nil
	}
	return content.Decode(bytes.NewReader(raw), content.FormatJSON)
}

type categorizeParams struct {
	Query         string          `json:"query"`
	Items         json.RawMessage `json:"items"`
	Related       json.RawMessage `json:"related"`
	Business      *bool           `json:"business"`
	Now           string          `json:"now"`
	Save          bool            `json:"save"`
	IncludeReport bool            `json:"include_report"`
}

type categorizeResult struct {
	Categories []categorizer.Result `json:"categories"`
	Report     *categorizer.Report  `json:"report,omitempty"`
	RunID      string               `json:"run_id,omitempty"`
}

func (p categorizeParams) options() (categorizer.Options, error) {
	opts := categorizer.Options{BusinessOverride: p.Business}
	if p.Now != "" {
		now, err := time.Parse(time.RFC3339, p.Now)
		if err != nil {
			return opts, fmt.Errorf("invalid now: %w", err)
		}
		opts.Now = now
	}
	related, err := decodeItems(p.Related)
	if err != nil {
		return opts, fmt.Errorf("invalid related: %w", err)
	}
	opts.Related = related
	return opts, nil
}

func (s *Server) handleCategorize(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p categorizeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	items, err := s.sourceItems(p.Items)
	if err != nil {
		return nil, fmt.Errorf("invalid items: %w", err)
	}
	opts, err := p.options()
	if err != nil {
		return nil, err
	}

	results, report := s.categorizer.Run(items, p.Query, opts)
	out := categorizeResult{Categories: results}
	if p.IncludeReport {
		out.Report = &report
	}

	if p.Save {
		if s.db == nil {
			return nil, ErrNoDatabase
		}
		run := database.RunFromResults(p.Query, results, report)
		if err := s.db.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		out.RunID = run.ID
	}

	return out, nil
}

type queryParams struct {
	Query string `json:"query"`
}

func (s *Server) handleClassifyQuery(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p queryParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	return output.Classify(p.Query, s.categorizer.Profiles()), nil
}

type scoreParams struct {
	Query   string          `json:"query"`
	Items   json.RawMessage `json:"items"`
	Related json.RawMessage `json:"related"`
}

func (s *Server) handleScoreItems(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	items, err := s.sourceItems(p.Items)
	if err != nil {
		return nil, fmt.Errorf("invalid items: %w", err)
	}
	related, err := decodeItems(p.Related)
	if err != nil {
		return nil, fmt.Errorf("invalid related: %w", err)
	}

	return s.categorizer.Assess(items, p.Query, categorizer.Options{Related: related}), nil
}

func (s *Server) handleListCategories(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.categorizer.Registry().ByPriority(), nil
}

type listRunsParams struct {
	Query     string `json:"query"`
	SinceDays int    `json:"since_days"`
	Limit     int    `json:"limit"`
}

func (s *Server) handleListRuns(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	var p listRunsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	opts := database.ListOptions{Limit: 20}
	if p.Query != "" {
		opts.Query = &p.Query
	}
	if p.SinceDays > 0 {
		since := time.Now().AddDate(0, 0, -p.SinceDays)
		opts.Since = &since
	}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}

	runs, err := s.db.ListRuns(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return runs, nil
}

type getRunParams struct {
	ID string `json:"id"`
}

func (s *Server) handleGetRun(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	var p getRunParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("id is required")
	}

	run, err := s.db.GetRun(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", p.ID)
	}
	return run, nil
}

type getStatsParams struct {
	SinceDays int `json:"since_days"`
}

func (s *Server) handleGetStats(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	var p getStatsParams
	if params != nil {
		json.Unmarshal(params, &p)
	}

	var since *time.Time
	if p.SinceDays > 0 {
		t := time.Now().AddDate(0, 0, -p.SinceDays)
		since = &t
	}

	stats, err := s.db.GetStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case ResourceCategories:
		return s.getResourceCategories()
	case ResourceRecent:
		return s.getResourceRecent(ctx)
	case ResourceStats:
		return s.getResourceStats(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceCategories() (string, error) {
	var b strings.Builder
	b.WriteString("Category Registry\n=================\n\n")

	for _, c := range s.categorizer.Registry().ByPriority() {
		fmt.Fprintf(&b, "%3d  %s (%s)", c.Priority, c.Name, c.ID)
		switch {
		case c.Fallback:
			b.WriteString(" [fallback]")
		case c.CatchAll:
			b.WriteString(" [catch-all]")
		case c.Business:
			b.WriteString(" [business]")
		}
		b.WriteString("\n")
		if len(c.Primary) > 0 {
			fmt.Fprintf(&b, "     primary:   %s\n", strings.Join(c.Primary, ", "))
		}
		if len(c.Secondary) > 0 {
			fmt.Fprintf(&b, "     secondary: %s\n", strings.Join(c.Secondary, ", "))
		}
	}
	return b.String(), nil
}

func (s *Server) getResourceRecent(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", ErrNoDatabase
	}
	runs, err := s.db.ListRuns(ctx, database.ListOptions{Limit: 10})
	if err != nil {
		return "", err
	}

	result := "Recent Runs (Last 10)\n=====================\n\n"
	if len(runs) == 0 {
		result += "No runs yet. Use the categorize tool with save=true to record one.\n"
		return result, nil
	}

	for _, r := range runs {
		result += fmt.Sprintf("- %s | %s | %s | %d item(s) in %d categor(ies)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.ID, r.Query, r.ItemCount, r.CategoryCount)
	}
	return result, nil
}

func (s *Server) getResourceStats(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", ErrNoDatabase
	}
	stats, err := s.db.GetStats(ctx, nil)
	if err != nil {
		return "", err
	}

	result := fmt.Sprintf(`Run Statistics
==============
Total runs:      %d
Total items:     %d
Fallback items:  %d
Cached bundles:  %d
`, stats.TotalRuns, stats.TotalItems, stats.FallbackItems, stats.CachedMetrics)

	if len(stats.TopCategories) > 0 {
		result += "\nTop categories:\n"
		for _, c := range stats.TopCategories {
			result += fmt.Sprintf("  - %s: %d\n", c.CategoryName, c.Items)
		}
	}
	return result, nil
}
