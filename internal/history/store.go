// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists chat transcripts in SQLite. The store keeps one
// row per session and one per message; sessions are identified by UUID.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// ErrUnknownSession is returned when a session id has no stored row.
var ErrUnknownSession = errors.New("unknown session")

// timeFmt is fixed-width so stored timestamps sort as text.
const timeFmt = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the transcript database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens or creates the transcript database at path. An empty path
// keeps the transcript in memory for the life of the Store.
func NewStore(path string) (*Store, error) {
	dsn := ":memory:?_foreign_keys=on"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == "" {
		// Each connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, rowid)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewSession creates a session and returns its id.
func (s *Store) NewSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := s.now().UTC().Format(timeFmt)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, updated_at) VALUES (?, ?, ?)`, id, now, now,
	); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// Append stores one message and bumps the session's updated time. A zero
// CreatedAt is set to the current time.
func (s *Store) Append(ctx context.Context, msg types.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	ts := msg.CreatedAt.UTC().Format(timeFmt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, ts, msg.SessionID)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSession, msg.SessionID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.SessionID, string(msg.Role), msg.Content, ts,
	); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return tx.Commit()
}

// Messages returns the session's messages in the order they were stored.
// When limit is positive only the most recent limit messages are returned.
func (s *Store) Messages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error) {
	query := `SELECT session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY rowid`
	args := []any{sessionID}
	if limit > 0 {
		query = `SELECT session_id, role, content, created_at FROM (
			SELECT rowid, session_id, role, content, created_at FROM messages
			WHERE session_id = ? ORDER BY rowid DESC LIMIT ?
		) ORDER BY rowid`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []types.ChatMessage
	for rows.Next() {
		var m types.ChatMessage
		var role, created string
		if err := rows.Scan(&m.SessionID, &role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = types.Role(role)
		m.CreatedAt, _ = time.Parse(timeFmt, created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Sessions lists stored sessions, most recently updated first.
func (s *Store) Sessions(ctx context.Context) ([]types.SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.updated_at, COUNT(m.rowid)
		FROM sessions s LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []types.SessionInfo
	for rows.Next() {
		var info types.SessionInfo
		var started, updated string
		if err := rows.Scan(&info.ID, &started, &updated, &info.Messages); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		info.StartedAt, _ = time.Parse(timeFmt, started)
		info.UpdatedAt, _ = time.Parse(timeFmt, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// SessionExists reports whether id names a stored session.
func (s *Store) SessionExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sessions WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}
	return n > 0, nil
}
