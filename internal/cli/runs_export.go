package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/searchlens/internal/database"
	"github.com/vijay-prabhu/searchlens/internal/output"
)

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export categorized items from saved runs to CSV or JSON",
	Long: `Export every categorized item of the saved runs, one row per item.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of row objects

Examples:
  searchlens runs export --format=csv > results.csv
  searchlens runs export --format=json --since=7d > recent.json`,
	Args: cobra.NoArgs,
	RunE: runRunsExport,
}

var (
	exportFormat string
	exportSince  string
)

func init() {
	runsCmd.AddCommand(runsExportCmd)

	runsExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	runsExportCmd.Flags().StringVar(&exportSince, "since", "", "Only runs from this period (e.g., 7d, 2w, 1m)")
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.ListOptions{}
	if exportSince != "" {
		since, err := parseDuration(exportSince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-since)
		opts.Since = &sinceTime
	}

	rows, err := exportRows(cmd.Context(), db, opts)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "csv":
		return exportCSV(cmd.OutOrStdout(), rows)
	case "json":
		return output.JSONTo(cmd.OutOrStdout(), rows)
	default:
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
}

// ExportRow is one categorized item of one run
type ExportRow struct {
	RunID       string `json:"run_id"`
	Query       string `json:"query"`
	RunAt       string `json:"run_at"`
	Category    string `json:"category"`
	Position    int    `json:"position"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Affinity    int    `json:"affinity"`
	Relevance   int    `json:"relevance"`
	Accuracy    int    `json:"accuracy"`
	Credibility int    `json:"credibility"`
	Recency     int    `json:"recency"`
	Overall     int    `json:"overall"`
}

func exportRows(ctx context.Context, db *database.DB, opts database.ListOptions) ([]ExportRow, error) {
	runs, err := db.ListRuns(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	rows := []ExportRow{}
	for _, summary := range runs {
		run, err := db.GetRun(ctx, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", summary.ID, err)
		}
		if run == nil {
			continue
		}
		for _, r := range run.Results {
			row := ExportRow{
				RunID:       run.ID,
				Query:       run.Query,
				RunAt:       run.CreatedAt.Format(time.RFC3339),
				Category:    r.CategoryName,
				Position:    r.Position,
				Title:       r.Title,
				Affinity:    r.Affinity,
				Relevance:   r.Relevance,
				Accuracy:    r.Accuracy,
				Credibility: r.Credibility,
				Recency:     r.Recency,
				Overall:     r.Overall,
			}
			if r.URL != nil {
				row.URL = *r.URL
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func exportCSV(out io.Writer, rows []ExportRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"run_id", "query", "run_at", "category", "position", "title", "url",
		"affinity", "relevance", "accuracy", "credibility", "recency", "overall",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.RunID,
			row.Query,
			row.RunAt,
			row.Category,
			strconv.Itoa(row.Position),
			row.Title,
			row.URL,
			strconv.Itoa(row.Affinity),
			strconv.Itoa(row.Relevance),
			strconv.Itoa(row.Accuracy),
			strconv.Itoa(row.Credibility),
			strconv.Itoa(row.Recency),
			strconv.Itoa(row.Overall),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
