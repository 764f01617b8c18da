// Package store provides a durable SQLite log of lex sessions and the
// SyntaxErrors they raised, for offline audit of a graphql-lexd deployment.
//
// Grounded on internal/store/store.go's database/sql + modernc.org/sqlite
// bootstrapping: single-connection mode, CREATE TABLE IF NOT EXISTS schema,
// RFC3339Nano-formatted timestamp columns, prepared Exec/Query calls.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Session is one row of the lex_sessions table.
type Session struct {
	ID         string
	SourceName string
	ByteLength int
	TokenCount int
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string // "running", "ok", "error"
}

// LexError is one row of the lex_errors table, raised during a Session.
type LexError struct {
	ID        int64
	SessionID string
	Line      int
	Column    int
	Message   string
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// New opens dbPath and ensures the schema exists.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", dbPath, err)
	}

	// SQLite requires single-connection mode for :memory: databases
	// (each pool connection gets its own in-memory DB otherwise), and
	// it avoids "database is locked" errors for file-based DBs too.
	db.SetMaxOpenConns(1)

	schema := `
CREATE TABLE IF NOT EXISTS lex_sessions (
    id TEXT PRIMARY KEY,
    source_name TEXT NOT NULL,
    byte_length INTEGER NOT NULL,
    token_count INTEGER NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    status TEXT NOT NULL DEFAULT 'running'
);

CREATE TABLE IF NOT EXISTS lex_errors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL REFERENCES lex_sessions(id),
    line INTEGER NOT NULL,
    column INTEGER NOT NULL,
    message TEXT NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating schema in %s: %w", dbPath, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new running session row.
func (s *Store) CreateSession(id, sourceName string, byteLength int) error {
	_, err := s.db.Exec(
		`INSERT INTO lex_sessions (id, source_name, byte_length, started_at, status) VALUES (?, ?, ?, ?, ?)`,
		id, sourceName, byteLength, time.Now().UTC().Format(time.RFC3339Nano), "running",
	)
	if err != nil {
		return fmt.Errorf("creating session %s: %w", id, err)
	}
	return nil
}

// FinishSession marks a session complete with a final token count and status.
func (s *Store) FinishSession(id string, tokenCount int, status string) error {
	_, err := s.db.Exec(
		`UPDATE lex_sessions SET finished_at = ?, token_count = ?, status = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), tokenCount, status, id,
	)
	if err != nil {
		return fmt.Errorf("finishing session %s: %w", id, err)
	}
	return nil
}

// RecordError appends a SyntaxError row for a session.
func (s *Store) RecordError(sessionID string, line, column int, message string) error {
	_, err := s.db.Exec(
		`INSERT INTO lex_errors (session_id, line, column, message) VALUES (?, ?, ?, ?)`,
		sessionID, line, column, message,
	)
	if err != nil {
		return fmt.Errorf("recording error for session %s: %w", sessionID, err)
	}
	return nil
}

// GetSession fetches a session by ID, returning (nil, nil) if it does not exist.
func (s *Store) GetSession(id string) (*Session, error) {
	var sess Session
	var startedAt string
	var finishedAt sql.NullString
	err := s.db.QueryRow(
		`SELECT id, source_name, byte_length, token_count, started_at, finished_at, status
		 FROM lex_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.SourceName, &sess.ByteLength, &sess.TokenCount, &startedAt, &finishedAt, &sess.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}
	sess.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at for session %s: %w", id, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at for session %s: %w", id, err)
		}
		sess.FinishedAt = &t
	}
	return &sess, nil
}

// ListErrors returns every LexError recorded for a session, in insertion order.
func (s *Store) ListErrors(sessionID string) ([]LexError, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, line, column, message FROM lex_errors WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing errors for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var errs []LexError
	for rows.Next() {
		var e LexError
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Line, &e.Column, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning lex_errors row: %w", err)
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}
