// Package history keeps an optional SQLite log of battery sessions: when a
// battery ran, against which ontology, and how each query fared. It records
// run metadata only, never graph data.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hodq/hodq/internal/runner"
)

//go:embed schema.sql
var schemaSQL string

// Store is the session log.
type Store struct {
	db *sql.DB
}

// Open creates or opens the log database at the given path and applies the
// schema. Idempotent.
//
// The database is configured with WAL mode for concurrent reads, NORMAL
// synchronous mode, a 5-second busy timeout, and foreign key enforcement.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// RecordSession writes one session and its query runs in a single
// transaction, returning the generated session id.
func (s *Store) RecordSession(ctx context.Context, report *runner.Report) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started, ontology, triples, executed, failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, report.Started.Format(time.RFC3339), report.Ontology,
		report.Stats.Triples, report.Executed(), report.Failures())
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for _, o := range report.Outcomes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (session_id, query_id, seq, category, status, rows, duration_ms, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, o.ID, o.Seq, o.Category, o.Status, o.Rows, o.Duration, o.Error)
		if err != nil {
			return "", fmt.Errorf("insert run %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit session: %w", err)
	}
	return id, nil
}

// Session is one logged battery session.
type Session struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Ontology string    `json:"ontology"`
	Triples  int       `json:"triples"`
	Executed int       `json:"executed"`
	Failed   int       `json:"failed"`
}

// Sessions lists logged sessions, most recent first. A non-positive limit
// means all sessions.
func (s *Store) Sessions(ctx context.Context, limit int) ([]Session, error) {
	q := `SELECT id, started, ontology, triples, executed, failed
	      FROM sessions ORDER BY started DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var started string
		if err := rows.Scan(&sess.ID, &started, &sess.Ontology, &sess.Triples, &sess.Executed, &sess.Failed); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if sess.Started, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse session timestamp: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Run is one logged query run.
type Run struct {
	QueryID  string  `json:"query_id"`
	Seq      int     `json:"seq"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
	Rows     int     `json:"rows"`
	Duration float64 `json:"duration_ms"`
	Error    string  `json:"error,omitempty"`
}

// Runs lists the query runs of one session in battery order.
func (s *Store) Runs(ctx context.Context, sessionID string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_id, seq, category, status, rows, duration_ms, error
		 FROM runs WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.QueryID, &r.Seq, &r.Category, &r.Status, &r.Rows, &r.Duration, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
