package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"catchminer/internal/aggregate"
	"catchminer/internal/finding"
	"catchminer/internal/report"
)

// RunRecord is a stored run.
type RunRecord struct {
	ID         string              `json:"id"`
	Root       string              `json:"root"`
	StartedAt  time.Time           `json:"startedAt"`
	DurationMs int64               `json:"durationMs"`
	Files      int                 `json:"files"`
	Failed     int                 `json:"failed"`
	Methods    int                 `json:"indexedMethods"`
	Stats      aggregate.CodeStats `json:"stats"`
}

// BucketRecord is the stored summary row of one grouping key.
type BucketRecord struct {
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Key      string `json:"key"`
	aggregate.Counts
}

// FindingRecord is a stored finding, flattened.
type FindingRecord struct {
	Kind       string
	ID         int
	Key        string
	File       string
	Line       int
	Method     string
	Operations string
	LogLevel   string
	Call       string
	Guard      string
	GuardLine  int
}

// RunRepository stores and reads runs.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save stores a run with all of its findings and buckets in one
// transaction.
func (r *RunRepository) Save(info report.RunInfo, res *aggregate.Result) error {
	stats, err := json.Marshal(res.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	return r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (
				run_id, root, started_at, duration_ms, files, failed, indexed_methods, stats_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			info.ID,
			info.Root,
			info.StartedAt.UTC().Format(time.RFC3339),
			info.DurationMs,
			res.Files,
			info.Failed,
			info.Methods,
			string(stats),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for _, t := range []*aggregate.Table{res.Catches, res.Calls} {
			if err := insertTable(tx, info.ID, t); err != nil {
				return err
			}
		}

		r.db.logger.Info("Run stored",
			"run", info.ID,
			"catchBlocks", res.Catches.Totals.Findings,
			"guardedCalls", res.Calls.Totals.Findings,
		)
		return nil
	})
}

func insertTable(tx *sql.Tx, runID string, t *aggregate.Table) error {
	findingStmt, err := tx.Prepare(`
		INSERT INTO findings (
			run_id, kind, finding_id, key, file, line, method, operations,
			log_level, call, guard, guard_line, context_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer findingStmt.Close()

	bucketStmt, err := tx.Prepare(`
		INSERT INTO buckets (
			run_id, kind, position, key, findings, logged, thrown, logged_and_thrown, logged_not_thrown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare bucket insert: %w", err)
	}
	defer bucketStmt.Close()

	kind := t.Kind.String()
	for pos, b := range t.Buckets() {
		c := b.Counts
		if _, err := bucketStmt.Exec(runID, kind, pos, b.Key, c.Findings, c.Logged, c.Thrown, c.LoggedAndThrown, c.LoggedNotThrown); err != nil {
			return fmt.Errorf("failed to insert bucket %q: %w", b.Key, err)
		}
		for _, f := range b.Findings {
			ctx, err := json.Marshal(f.Context)
			if err != nil {
				return fmt.Errorf("failed to encode context of finding %d: %w", f.ID, err)
			}
			var guard interface{}
			var guardLine interface{}
			if f.Kind == finding.KindGuardedCall {
				guard = f.Guard.String()
				guardLine = f.GuardLoc.Line
			}
			_, err = findingStmt.Exec(
				runID, kind, f.ID, f.Key, f.Location.File, f.Location.Line,
				nullable(f.Method), f.Ops.String(), nullable(f.LogLevel), nullable(f.Call),
				guard, guardLine, string(ctx),
			)
			if err != nil {
				return fmt.Errorf("failed to insert finding %d: %w", f.ID, err)
			}
		}
	}
	return nil
}

// Get returns a stored run, or nil when no run has the ID.
func (r *RunRepository) Get(id string) (*RunRecord, error) {
	row := r.db.QueryRow(`
		SELECT run_id, root, started_at, duration_ms, files, failed, indexed_methods, stats_json
		FROM runs WHERE run_id = ?
	`, id)
	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List returns the most recent runs first, at most limit of them.
func (r *RunRepository) List(limit int) ([]*RunRecord, error) {
	rows, err := r.db.Query(`
		SELECT run_id, root, started_at, duration_ms, files, failed, indexed_methods, stats_json
		FROM runs ORDER BY started_at DESC, run_id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var rec RunRecord
	var started, stats string
	if err := s.Scan(&rec.ID, &rec.Root, &started, &rec.DurationMs, &rec.Files, &rec.Failed, &rec.Methods, &stats); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	rec.StartedAt = t
	if err := json.Unmarshal([]byte(stats), &rec.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return &rec, nil
}

// Buckets returns the summary rows of one table of a run in position
// order.
func (r *RunRepository) Buckets(runID string, kind finding.Kind) ([]BucketRecord, error) {
	rows, err := r.db.Query(`
		SELECT kind, position, key, findings, logged, thrown, logged_and_thrown, logged_not_thrown
		FROM buckets WHERE run_id = ? AND kind = ? ORDER BY position
	`, runID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	var out []BucketRecord
	for rows.Next() {
		var b BucketRecord
		if err := rows.Scan(&b.Kind, &b.Position, &b.Key, &b.Findings, &b.Logged, &b.Thrown, &b.LoggedAndThrown, &b.LoggedNotThrown); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Findings returns the findings of one table of a run in ID order.
func (r *RunRepository) Findings(runID string, kind finding.Kind) ([]FindingRecord, error) {
	rows, err := r.db.Query(`
		SELECT kind, finding_id, key, file, line, method, operations, log_level, call, guard, guard_line
		FROM findings WHERE run_id = ? AND kind = ? ORDER BY finding_id
	`, runID, kind.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var out []FindingRecord
	for rows.Next() {
		var f FindingRecord
		var method, level, call, guard sql.NullString
		var guardLine sql.NullInt64
		if err := rows.Scan(&f.Kind, &f.ID, &f.Key, &f.File, &f.Line, &method, &f.Operations, &level, &call, &guard, &guardLine); err != nil {
			return nil, err
		}
		f.Method = method.String
		f.LogLevel = level.String
		f.Call = call.String
		f.Guard = guard.String
		f.GuardLine = int(guardLine.Int64)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Delete removes a run together with its findings and buckets.
func (r *RunRepository) Delete(id string) error {
	return r.db.WithTx(func(tx *sql.Tx) error {
		for _, table := range []string{"findings", "buckets", "runs"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_id = ?", id); err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
		}
		return nil
	})
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
