package ledger

import (
	"fmt"
	"time"
)

// CategoryCounts is one category's tally for a finished run.
type CategoryCounts struct {
	Category  string
	Processed int
	Created   int
	Updated   int
	Errored   int
	Invalid   int
	Unmatched int
}

// RunSummary is one recorded run with its per-category counts.
type RunSummary struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Counts     []CategoryCounts
}

// RecordRun stores a finished run and its per-category counts in one
// transaction.
func (db *DB) RecordRun(started, finished time.Time, dryRun bool, counts []CategoryCounts) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, dry_run) VALUES (?, ?, ?)`,
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339), boolToInt(dryRun),
	)
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}

	for _, c := range counts {
		_, err := tx.Exec(
			`INSERT INTO run_counts (run_id, category, processed, created, updated, errored, invalid, unmatched)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.Category, c.Processed, c.Created, c.Updated, c.Errored, c.Invalid, c.Unmatched,
		)
		if err != nil {
			return 0, fmt.Errorf("record run counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, most recent first.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(
		`SELECT id, started_at, finished_at, dry_run FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		var dry int
		if err := rows.Scan(&r.ID, &started, &finished, &dry); err != nil {
			return nil, fmt.Errorf("recent runs: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		r.DryRun = dry != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}

	for i := range out {
		counts, err := db.runCounts(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Counts = counts
	}
	return out, nil
}

func (db *DB) runCounts(runID int64) ([]CategoryCounts, error) {
	rows, err := db.conn.Query(
		`SELECT category, processed, created, updated, errored, invalid, unmatched
		 FROM run_counts WHERE run_id = ? ORDER BY category`, runID)
	if err != nil {
		return nil, fmt.Errorf("run counts: %w", err)
	}
	defer rows.Close()

	var out []CategoryCounts
	for rows.Next() {
		var c CategoryCounts
		if err := rows.Scan(&c.Category, &c.Processed, &c.Created, &c.Updated, &c.Errored, &c.Invalid, &c.Unmatched); err != nil {
			return nil, fmt.Errorf("run counts: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
