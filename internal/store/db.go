package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionLog is one entry of a session's activity log.
type SessionLog struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Stage     string                 `json:"stage"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store records session metadata and activity. Dataset contents are never
// written here; they live only in the session.
type Store struct {
	db    *sql.DB
	retry RetryConfig
}

// Open opens (or creates) the sqlite database at dbPath and applies the
// schema. ":memory:" gives a private in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// a second connection to ":memory:" would see a different database
	db.SetMaxOpenConns(1)

	sessionTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		last_seen_at DATETIME
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS session_logs (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		details TEXT,
		created_at DATETIME
	);
	`
	logIndex := `CREATE INDEX IF NOT EXISTS idx_session_logs_session ON session_logs (session_id, created_at);`

	for _, stmt := range []string{sessionTable, logTable, logIndex} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &Store{db: db, retry: DefaultRetryConfig}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// exec runs a write statement, retrying while the database is locked.
func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := withRetry(ctx, s.retry, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

// SaveSession registers a new session.
func (s *Store) SaveSession(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	_, err := s.exec(ctx,
		`INSERT INTO sessions (id, created_at, last_seen_at) VALUES (?, ?, ?)`,
		sessionID, now, now)
	return err
}

// TouchSession updates the last activity time of a session.
func (s *Store) TouchSession(ctx context.Context, sessionID string) error {
	res, err := s.exec(ctx,
		`UPDATE sessions SET last_seen_at = ? WHERE id = ?`, time.Now().UTC(), sessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SaveSessionLog appends an activity entry for a session.
func (s *Store) SaveSessionLog(ctx context.Context, sessionID, stage, level, message string, details map[string]interface{}) error {
	var detailsJSON []byte
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		detailsJSON = b
	}

	_, err := s.exec(ctx,
		`INSERT INTO session_logs (id, session_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), sessionID, stage, level, message, string(detailsJSON), time.Now().UTC())
	return err
}

// GetSessionLogs returns up to limit entries for a session, oldest first.
func (s *Store) GetSessionLogs(ctx context.Context, sessionID string, limit int) ([]SessionLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, stage, level, message, details, created_at
		 FROM session_logs WHERE session_id = ? ORDER BY created_at ASC, rowid ASC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []SessionLog{}
	for rows.Next() {
		var entry SessionLog
		var details string
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Stage, &entry.Level, &entry.Message, &details, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if details != "" {
			if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
				return nil, fmt.Errorf("decode details: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// CountSessions returns the number of sessions ever registered.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}
