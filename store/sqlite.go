package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tailored-agentic-units/historian/core/protocol"
	"github.com/tailored-agentic-units/historian/session"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	session_id TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	role       TEXT    NOT NULL,
	content    TEXT    NOT NULL,
	tokens     INTEGER NOT NULL,
	PRIMARY KEY (session_id, seq)
);`

// SQLiteStore persists sessions in a SQLite database. Live sessions are
// cached in memory so repeated CreateOrGet calls return the same object;
// Save rewrites the persisted history to match the in-memory state, which
// keeps trim evictions durable.
type SQLiteStore struct {
	db     *sql.DB
	limits session.Config

	mu   sync.Mutex
	live map[string]*session.Session
}

// NewSQLiteStore opens (or creates) the database at path and prepares the
// schema.
func NewSQLiteStore(path string, limits session.Config) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		limits: limits,
		live:   make(map[string]*session.Session),
	}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateOrGet(ctx context.Context, id string) (*session.Session, bool, error) {
	if id == "" {
		return nil, false, ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.live[id]; exists {
		return sess, false, nil
	}

	sess, found, err := s.loadLocked(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if found {
		s.live[id] = sess
		return sess, false, nil
	}

	sess = session.New(id, s.limits)
	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (id, created_at) VALUES (?, ?)",
		id, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrSaveFailed, id, err)
	}

	s.live[id] = sess
	return sess, true, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.live[id]; exists {
		return sess, nil
	}

	sess, found, err := s.loadLocked(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	s.live[id] = sess
	return sess, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess *session.Session) error {
	msgs := sess.Messages()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, sess.ID(), err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (id, created_at) VALUES (?, ?)",
		sess.ID(), time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, sess.ID(), err)
	}

	// Trimming evicts from the front, so rewriting the whole history is the
	// simplest way to keep rows and memory in lockstep.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM messages WHERE session_id = ?", sess.ID()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, sess.ID(), err)
	}

	for seq, msg := range msgs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO messages (session_id, seq, role, content, tokens) VALUES (?, ?, ?, ?, ?)",
			sess.ID(), seq, string(msg.Role), msg.Content, msg.Tokens); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSaveFailed, sess.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, sess.ID(), err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM messages WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("clear session %s: %w", id, err)
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("clear session %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM sessions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// loadLocked reads a persisted session from the database. The second return
// reports whether the session row exists.
func (s *SQLiteStore) loadLocked(ctx context.Context, id string) (*session.Session, bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT role, content, tokens FROM messages WHERE session_id = ? ORDER BY seq",
		id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
	}
	defer rows.Close()

	var msgs []protocol.Message
	for rows.Next() {
		var role, content string
		var tokens int
		if err := rows.Scan(&role, &content, &tokens); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
		}
		msgs = append(msgs, protocol.NewMessage(protocol.Role(role), content, tokens))
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, id, err)
	}

	sess := session.New(id, s.limits)
	sess.Restore(msgs)
	return sess, true, nil
}
