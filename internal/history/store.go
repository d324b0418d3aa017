// Package history implements the optional run journal for Pathfinder.
//
// It records one row per planning operation in a local SQLite database so
// the plan_history tool can report recent runs and aggregate statistics.
// The journal is observational only: the planning engine never reads it,
// and a journal failure never affects a planning response. Task
// descriptions are stored as SHA-256 hashes, never as raw text.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Run is one journaled planning operation.
type Run struct {
	ID              int64   `json:"id"`
	CreatedAt       string  `json:"created_at"`
	Stage           string  `json:"stage"`
	Domain          string  `json:"domain,omitempty"`
	Confidence      float64 `json:"confidence"`
	Complexity      int     `json:"complexity"`
	Escalated       bool    `json:"escalated"`
	DescriptionHash string  `json:"description_hash,omitempty"`
}

// Stats holds aggregate journal statistics.
type Stats struct {
	TotalRuns     int            `json:"total_runs"`
	Escalations   int            `json:"escalations"`
	RunsByStage   map[string]int `json:"runs_by_stage"`
	RunsByDomain  map[string]int `json:"runs_by_domain"`
	AvgConfidence float64        `json:"avg_confidence"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".pathfinder")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the run journal backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates the data directory if needed, opens SQLite with WAL mode,
// and runs the migration.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at       TEXT    NOT NULL DEFAULT (datetime('now')),
			stage            TEXT    NOT NULL,
			domain           TEXT,
			confidence       REAL    NOT NULL DEFAULT 0,
			complexity       INTEGER NOT NULL DEFAULT 1,
			escalated        INTEGER NOT NULL DEFAULT 0,
			description_hash TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_stage   ON runs(stage);
		CREATE INDEX IF NOT EXISTS idx_runs_domain  ON runs(domain);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Journal ─────────────────────────────────────────────────────────────────

// Record appends one run to the journal. The description is hashed before
// storage; an empty description stores an empty hash.
func (s *Store) Record(stage, domain, description string, confidence float64, complexity int, escalated bool) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (stage, domain, confidence, complexity, escalated, description_hash)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		stage, nullableString(domain), confidence, complexity, boolToInt(escalated), hashDescription(description),
	)
	if err != nil {
		return 0, fmt.Errorf("history: record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, created_at, stage, ifnull(domain, ''), confidence, complexity, escalated, ifnull(description_hash, '')
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var escalated int
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Stage, &r.Domain, &r.Confidence, &r.Complexity, &escalated, &r.DescriptionHash); err != nil {
			return nil, err
		}
		r.Escalated = escalated != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns aggregate statistics across the whole journal.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{
		RunsByStage:  map[string]int{},
		RunsByDomain: map[string]int{},
	}

	row := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(escalated), 0), COALESCE(AVG(confidence), 0) FROM runs`)
	if err := row.Scan(&stats.TotalRuns, &stats.Escalations, &stats.AvgConfidence); err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT stage, COUNT(*) FROM runs GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("history: stats by stage: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		stats.RunsByStage[stage] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	domainRows, err := s.db.Query(`SELECT domain, COUNT(*) FROM runs WHERE domain IS NOT NULL GROUP BY domain`)
	if err != nil {
		return nil, fmt.Errorf("history: stats by domain: %w", err)
	}
	defer func() { _ = domainRows.Close() }()
	for domainRows.Next() {
		var domain string
		var n int
		if err := domainRows.Scan(&domain, &n); err != nil {
			return nil, err
		}
		stats.RunsByDomain[domain] = n
	}
	return stats, domainRows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// hashDescription returns the hex SHA-256 of a task description, or ""
// for an empty description.
func hashDescription(description string) string {
	if description == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
