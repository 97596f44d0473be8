package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/searchlens/internal/metrics"
)

// SaveRun inserts a run and its results in one transaction
func (db *DB) SaveRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (
				id, query, contexts, business, item_count, skipped_count,
				category_count, fallback_count, duration_ms, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.ID, r.Query, joinContexts(r.Contexts), r.Business, r.ItemCount, r.SkippedCount,
			r.CategoryCount, r.FallbackCount, r.DurationMS, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_results (
				run_id, category_id, category_name, priority, position, item_key,
				title, url, affinity, relevance, accuracy, credibility, recency, overall
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, res := range r.Results {
			if _, err := stmt.ExecContext(ctx,
				r.ID, res.CategoryID, res.CategoryName, res.Priority, res.Position, res.ItemKey,
				res.Title, NullString(res.URL), res.Affinity, res.Relevance, res.Accuracy,
				res.Credibility, res.Recency, res.Overall,
			); err != nil {
				return fmt.Errorf("failed to insert run result: %w", err)
			}
		}
		return nil
	})
}

const runColumns = `id, query, contexts, business, item_count, skipped_count,
	category_count, fallback_count, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	r := &Run{}
	var contexts string
	if err := s.Scan(
		&r.ID, &r.Query, &contexts, &r.Business, &r.ItemCount, &r.SkippedCount,
		&r.CategoryCount, &r.FallbackCount, &r.DurationMS, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	r.Contexts = splitContexts(contexts)
	return r, nil
}

// GetRun retrieves a run and its results by ID. A missing run yields nil
// without error.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT category_id, category_name, priority, position, item_key, title, url,
		       affinity, relevance, accuracy, credibility, recency, overall
		FROM run_results WHERE run_id = ?
		ORDER BY priority, category_id, position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var res RunResult
		var url sql.NullString
		if err := rows.Scan(
			&res.CategoryID, &res.CategoryName, &res.Priority, &res.Position, &res.ItemKey,
			&res.Title, &url, &res.Affinity, &res.Relevance, &res.Accuracy,
			&res.Credibility, &res.Recency, &res.Overall,
		); err != nil {
			return nil, err
		}
		res.URL = StringPtr(url)
		r.Results = append(r.Results, res)
	}
	return r, rows.Err()
}

// ListRuns retrieves runs, newest first, without their results
func (db *DB) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE 1=1"
	args := []interface{}{}

	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.Query != nil {
		query += " AND LOWER(query) LIKE LOWER(?)"
		args = append(args, "%"+*opts.Query+"%")
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and, by cascade, its results
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetStats retrieves aggregate statistics
func (db *DB) GetStats(ctx context.Context, since *time.Time) (*Stats, error) {
	stats := &Stats{TopCategories: []CategoryCount{}}

	whereClause := ""
	args := []interface{}{}
	if since != nil {
		whereClause = "WHERE created_at >= ?"
		args = append(args, *since)
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COALESCE(SUM(item_count), 0),
			COALESCE(SUM(fallback_count), 0)
		FROM runs %s
	`, whereClause)
	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalRuns, &stats.TotalItems, &stats.FallbackItems,
	); err != nil {
		return nil, err
	}
	if stats.TotalRuns > 0 {
		stats.AvgItems = float64(stats.TotalItems) / float64(stats.TotalRuns)
	}

	var last sql.NullTime
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT created_at FROM runs %s ORDER BY created_at DESC LIMIT 1", whereClause),
		args...).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if last.Valid {
		stats.LastRunAt = &last.Time
	}

	catQuery := `
		SELECT rr.category_id, rr.category_name, COUNT(*) AS n
		FROM run_results rr JOIN runs r ON r.id = rr.run_id
	`
	if since != nil {
		catQuery += " WHERE r.created_at >= ?"
	}
	catQuery += " GROUP BY rr.category_id, rr.category_name ORDER BY n DESC, rr.category_id LIMIT 10"

	rows, err := db.QueryContext(ctx, catQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.Items); err != nil {
			return nil, err
		}
		stats.TopCategories = append(stats.TopCategories, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM item_metrics").Scan(&stats.CachedMetrics); err != nil {
		return nil, err
	}

	return stats, nil
}

// CachedMetrics returns the bundles stored under scope for the given item
// keys. Keys with no stored bundle in that scope are absent from the result.
func (db *DB) CachedMetrics(ctx context.Context, scope string, keys []string) (map[string]metrics.Bundle, error) {
	out := make(map[string]metrics.Bundle, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, scope)
	for _, k := range keys {
		args = append(args, k)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT item_key, relevance, accuracy, credibility, recency, overall
		FROM item_metrics WHERE scope = ? AND item_key IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var b metrics.Bundle
		if err := rows.Scan(&key, &b.Relevance, &b.Accuracy, &b.Credibility, &b.Recency, &b.Overall); err != nil {
			return nil, err
		}
		out[key] = b
	}
	return out, rows.Err()
}

// StoreMetrics upserts computed bundles keyed by scope and item identity
func (db *DB) StoreMetrics(ctx context.Context, scope string, bundles map[string]metrics.Bundle) error {
	if len(bundles) == 0 {
		return nil
	}
	now := time.Now()

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO item_metrics (scope, item_key, relevance, accuracy, credibility, recency, overall, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(scope, item_key) DO UPDATE SET
				relevance = excluded.relevance,
				accuracy = excluded.accuracy,
				credibility = excluded.credibility,
				recency = excluded.recency,
				overall = excluded.overall,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for key, b := range bundles {
			if _, err := stmt.ExecContext(ctx, scope, key, b.Relevance, b.Accuracy, b.Credibility, b.Recency, b.Overall, now); err != nil {
				return fmt.Errorf("failed to store metrics for %s: %w", key, err)
			}
		}
		return nil
	})
}

// PruneMetrics deletes cached bundles last written before cutoff
func (db *DB) PruneMetrics(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, "DELETE FROM item_metrics WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
