package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/metrics"
)

// SQLiteStore persists the queue in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore creates a SQLite-backed store.
// If dbPath is empty, defaults to "./data/boardroom.db".
func NewSQLiteStore(ctx context.Context, dbPath string, logger zerolog.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/boardroom.db"
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db, logger: logger}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates the queue table if it doesn't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS queued_messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		content TEXT NOT NULL,
		payload TEXT NOT NULL,
		queued_at DATETIME NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'queued'
	);

	CREATE INDEX IF NOT EXISTS idx_queued_messages_queued_at ON queued_messages(queued_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Enqueue implements Store.
func (s *SQLiteStore) Enqueue(ctx context.Context, conversationID, content string, payload json.RawMessage) *QueuedMessage {
	msg := newMessage(conversationID, content, payload)

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queued_messages`).Scan(&count); err == nil && count >= Capacity {
		evict := count - Capacity + 1
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM queued_messages WHERE id IN (
				SELECT id FROM queued_messages ORDER BY queued_at ASC, id ASC LIMIT ?
			)
		`, evict)
		if err == nil {
			metrics.QueueEvictions.Add(float64(evict))
		}
	}

	if err := s.insert(ctx, msg); err != nil {
		// Trim to the most recent entries and retry once.
		_, _ = s.db.ExecContext(ctx, `
			DELETE FROM queued_messages WHERE id NOT IN (
				SELECT id FROM queued_messages ORDER BY queued_at DESC, id DESC LIMIT ?
			)
		`, trimCapacity-1)
		if err := s.insert(ctx, msg); err != nil {
			metrics.QueueDrops.Inc()
			s.logger.Warn().Err(err).Str("id", msg.ID).Msg("queued message dropped, storage unavailable")
			return msg
		}
	}

	metrics.MessagesQueued.Inc()
	return msg
}

func (s *SQLiteStore) insert(ctx context.Context, msg *QueuedMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO queued_messages (id, conversation_id, content, payload, queued_at, attempts, last_error, status)
		VALUES (?, ?, ?, ?, ?, 0, '', ?)
	`, msg.ID, msg.ConversationID, msg.Content, string(msg.Payload), msg.QueuedAt, string(msg.Status))
	return err
}

// Dequeue implements Store.
func (s *SQLiteStore) Dequeue(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM queued_messages WHERE id = ?`, id)
	return err
}

// Pending implements Store.
func (s *SQLiteStore) Pending(ctx context.Context) ([]QueuedMessage, error) {
	cutoff := time.Now().Add(-MaxAge)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, content, payload, queued_at, attempts, last_error, status
		FROM queued_messages
		WHERE status = ? AND queued_at > ?
		ORDER BY queued_at ASC, id ASC
	`, string(StatusQueued), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []QueuedMessage
	for rows.Next() {
		var m QueuedMessage
		var payload, status string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Content, &payload, &m.QueuedAt, &m.Attempts, &m.LastError, &status); err != nil {
			return nil, err
		}
		m.Payload = json.RawMessage(payload)
		m.Status = Status(status)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// PendingCount implements Store.
func (s *SQLiteStore) PendingCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-MaxAge)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM queued_messages WHERE status = ? AND queued_at > ?
	`, string(StatusQueued), cutoff).Scan(&count)
	return count, err
}

// RecordFailure implements Store.
func (s *SQLiteStore) RecordFailure(ctx context.Context, id, errMsg string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE queued_messages SET attempts = attempts + 1, last_error = ? WHERE id = ?
	`, errMsg, id)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, ErrNotFound
	}

	var attempts int
	err = s.db.QueryRowContext(ctx, `SELECT attempts FROM queued_messages WHERE id = ?`, id).Scan(&attempts)
	return attempts, err
}

// MarkFailed implements Store.
func (s *SQLiteStore) MarkFailed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE queued_messages SET status = ? WHERE id = ?`, string(StatusFailed), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll implements Store.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM queued_messages`)
	return err
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
