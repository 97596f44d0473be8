package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
	"github.com/vijay-prabhu/searchlens/internal/category"
	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/metrics"
	"github.com/vijay-prabhu/searchlens/internal/querycontext"
)

// Classification is the outcome of classifying a query
type Classification struct {
	Query    string                 `json:"query"`
	Contexts []querycontext.Context `json:"contexts"`
	Business bool                   `json:"business"`
	Weights  querycontext.Weights   `json:"weights"`
}

// Classify builds the classification of query under profiles
func Classify(query string, profiles querycontext.Profiles) Classification {
	contexts := querycontext.Classify(query)
	return Classification{
		Query:    query,
		Contexts: contexts,
		Business: querycontext.IsBusiness(contexts),
		Weights:  profiles.For(contexts),
	}
}

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []categorizer.Result:
		return resultsTable(w, v)
	case []categorizer.Assessment:
		return assessmentsTable(w, v)
	case categorizer.Report:
		return reportDetail(w, v)
	case []category.Category:
		return categoriesTable(w, v)
	case []database.Run:
		return runsTable(w, v)
	case *database.Run:
		return runDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	case Classification:
		return classificationDetail(w, v)
	case metrics.Bundle:
		return bundleDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func render(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func scoreCells(b metrics.Bundle) []string {
	return []string{
		strconv.Itoa(b.Relevance),
		strconv.Itoa(b.Accuracy),
		strconv.Itoa(b.Credibility),
		strconv.Itoa(b.Recency),
		strconv.Itoa(b.Overall),
	}
}

var scoreHeader = []string{"REL", "ACC", "CRED", "REC", "OVERALL"}

func resultsTable(w io.Writer, results []categorizer.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d items, overall %d)\n", res.Name, len(res.Content), res.Metrics.Overall)

		rows := make([][]string, 0, len(res.Content))
		for _, it := range res.Content {
			row := []string{truncate(it.Title, 50), strconv.Itoa(it.Affinity)}
			rows = append(rows, append(row, scoreCells(it.Bundle())...))
		}
		if err := render(w, append([]string{"TITLE", "AFFINITY"}, scoreHeader...), rows); err != nil {
			return err
		}
	}
	return nil
}

func assessmentsTable(w io.Writer, items []categorizer.Assessment) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No scorable items.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, a := range items {
		cat := a.Category
		if cat == "" {
			cat = "-"
		}
		row := []string{truncate(a.Title, 40), cat, strconv.Itoa(a.Affinity)}
		rows = append(rows, append(row, scoreCells(a.Metrics)...))
	}
	return render(w, append([]string{"TITLE", "CATEGORY", "AFFINITY"}, scoreHeader...), rows)
}

func reportDetail(w io.Writer, r categorizer.Report) error {
	fmt.Fprintf(w, "Contexts:    %s\n", joinContexts(r.Contexts))
	fmt.Fprintf(w, "Business:    %t\n", r.Business)
	fmt.Fprintf(w, "Items:       %d (%d skipped)\n", r.Input, r.Skipped)
	fmt.Fprintf(w, "Passes:      first %d, second %d, fallback %d\n", r.FirstPass, r.SecondPass, r.Fallback)
	if r.Duplicates > 0 {
		fmt.Fprintf(w, "Duplicates:  %d\n", r.Duplicates)
	}
	if r.DroppedCategories > 0 {
		fmt.Fprintf(w, "Dropped:     %d categories, %d items\n", r.DroppedCategories, r.DroppedItems)
	}
	if r.Degraded > 0 {
		fmt.Fprintf(w, "Degraded:    %d\n", r.Degraded)
	}
	fmt.Fprintf(w, "Duration:    %s\n", r.Duration)
	return nil
}

func categoriesTable(w io.Writer, cats []category.Category) error {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		kind := ""
		switch {
		case c.Fallback:
			kind = "fallback"
		case c.CatchAll:
			kind = "catch-all"
		case c.Business:
			kind = "business"
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Priority),
			c.ID,
			c.Name,
			kind,
			strconv.Itoa(len(c.Primary) + len(c.Secondary)),
		})
	}
	return render(w, []string{"PRIORITY", "ID", "NAME", "KIND", "KEYWORDS"}, rows)
}

func runsTable(w io.Writer, runs []database.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			truncate(r.Query, 40),
			strings.Join(r.Contexts, ","),
			strconv.Itoa(r.ItemCount),
			strconv.Itoa(r.CategoryCount),
			r.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	return render(w, []string{"ID", "QUERY", "CONTEXTS", "ITEMS", "CATEGORIES", "CREATED"}, rows)
}

func runDetail(w io.Writer, r *database.Run) error {
	fmt.Fprintf(w, "Run:         %s\n", r.ID)
	fmt.Fprintf(w, "Query:       %s\n", r.Query)
	fmt.Fprintf(w, "Contexts:    %s\n", strings.Join(r.Contexts, ", "))
	fmt.Fprintf(w, "Items:       %d (%d skipped, %d fallback)\n", r.ItemCount, r.SkippedCount, r.FallbackCount)
	fmt.Fprintf(w, "Created:     %s\n", r.CreatedAt.Format("Jan 02, 2006 15:04"))

	if len(r.Results) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		b := metrics.Bundle{
			Relevance:   res.Relevance,
			Accuracy:    res.Accuracy,
			Credibility: res.Credibility,
			Recency:     res.Recency,
			Overall:     res.Overall,
		}
		row := []string{res.CategoryName, truncate(res.Title, 40), strconv.Itoa(res.Affinity)}
		rows = append(rows, append(row, scoreCells(b)...))
	}
	return render(w, append([]string{"CATEGORY", "TITLE", "AFFINITY"}, scoreHeader...), rows)
}

func statsTable(w io.Writer, s *database.Stats) error {
	fmt.Fprintln(w, "Categorization Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total runs:             %d\n", s.TotalRuns)
	fmt.Fprintf(w, "Total items:            %d\n", s.TotalItems)
	if s.TotalRuns > 0 {
		fmt.Fprintf(w, "Avg items per run:      %.1f\n", s.AvgItems)
	}
	fmt.Fprintf(w, "Fallback items:         %d\n", s.FallbackItems)
	fmt.Fprintf(w, "Cached metric bundles:  %d\n", s.CachedMetrics)
	if s.LastRunAt != nil {
		fmt.Fprintf(w, "Last run:               %s\n", s.LastRunAt.Format("Jan 02, 2006 15:04"))
	}

	if len(s.TopCategories) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	rows := make([][]string, 0, len(s.TopCategories))
	for _, c := range s.TopCategories {
		rows = append(rows, []string{c.CategoryName, strconv.Itoa(c.Items)})
	}
	return render(w, []string{"CATEGORY", "ITEMS"}, rows)
}

func classificationDetail(w io.Writer, c Classification) error {
	fmt.Fprintf(w, "Query:       %s\n", c.Query)
	fmt.Fprintf(w, "Contexts:    %s\n", joinContexts(c.Contexts))
	fmt.Fprintf(w, "Business:    %t\n", c.Business)
	fmt.Fprintf(w, "Weights:     relevance %.2f, accuracy %.2f, credibility %.2f\n",
		c.Weights.Relevance, c.Weights.Accuracy, c.Weights.Credibility)
	return nil
}

func bundleDetail(w io.Writer, b metrics.Bundle) error {
	return render(w, scoreHeader, [][]string{scoreCells(b)})
}

func joinContexts(contexts []querycontext.Context) string {
	if len(contexts) == 0 {
		return string(querycontext.General)
	}
	names := make([]string, len(contexts))
	for i, c := range contexts {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
