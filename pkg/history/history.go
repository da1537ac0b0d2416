// Package history records property run outcomes in a local SQLite
// database, so recent verdicts and seeds can be inspected after the fact
// with the propcheck CLI.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/nomagicln/propcheck/pkg/config"
)

// Run is one recorded property run.
type Run struct {
	Test        string
	Verdict     string
	Seed        int64
	Evaluations int
	Successes   int
	Failures    int
	Discards    int
	RecordedAt  time.Time
}

// Recorder persists run results to SQLite.
type Recorder struct {
	db *sql.DB
}

// DefaultPath resolves the history database location:
// $PROPCHECK_CACHE_DIR/history.db, else the user cache dir.
func DefaultPath() (string, error) {
	if dir := os.Getenv("PROPCHECK_CACHE_DIR"); dir != "" {
		return filepath.Join(dir, "history.db"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "propcheck", "history.db"), nil
}

// Open creates or opens the history database at path.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			test TEXT NOT NULL,
			verdict TEXT NOT NULL,
			seed INTEGER NOT NULL,
			evaluations INTEGER NOT NULL,
			successes INTEGER NOT NULL,
			failures INTEGER NOT NULL,
			discards INTEGER NOT NULL,
			recorded_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Hook adapts the recorder to the engine's result hook. Recording errors
// are swallowed; history is best-effort and must never fail a test.
func (r *Recorder) Hook() func(config.Result) {
	return func(res config.Result) {
		_ = r.Record(res)
	}
}

// Record inserts one run.
func (r *Recorder) Record(res config.Result) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (test, verdict, seed, evaluations, successes, failures, discards, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, res.Test, string(res.Verdict), res.Seed,
		res.Stats.Evaluations, res.Stats.Successes, res.Stats.Failures, res.Stats.Discards(),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *Recorder) Recent(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT test, verdict, seed, evaluations, successes, failures, discards, recorded_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.Test, &run.Verdict, &run.Seed,
			&run.Evaluations, &run.Successes, &run.Failures, &run.Discards,
			&run.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}
