package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/metrics"
)

// PostgresStore persists the queue in PostgreSQL, for deployments where the
// resilience layer runs server-adjacent rather than on a single device.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string, logger zerolog.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool, logger: logger}

	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates the queue table if it doesn't exist.
func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS queued_messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			content TEXT NOT NULL,
			payload JSONB NOT NULL,
			queued_at TIMESTAMPTZ NOT NULL,
			attempts INT NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'queued'
		);

		CREATE INDEX IF NOT EXISTS idx_queued_messages_queued_at ON queued_messages(queued_at);
	`)
	return err
}

// Enqueue implements Store.
func (s *PostgresStore) Enqueue(ctx context.Context, conversationID, content string, payload json.RawMessage) *QueuedMessage {
	msg := newMessage(conversationID, content, payload)

	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM queued_messages`).Scan(&count); err == nil && count >= Capacity {
		evict := count - Capacity + 1
		_, err := s.pool.Exec(ctx, `
			DELETE FROM queued_messages WHERE id IN (
				SELECT id FROM queued_messages ORDER BY queued_at ASC, id ASC LIMIT $1
			)
		`, evict)
		if err == nil {
			metrics.QueueEvictions.Add(float64(evict))
		}
	}

	if err := s.insert(ctx, msg); err != nil {
		_, _ = s.pool.Exec(ctx, `
			DELETE FROM queued_messages WHERE id NOT IN (
				SELECT id FROM queued_messages ORDER BY queued_at DESC, id DESC LIMIT $1
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

func (s *PostgresStore) insert(ctx context.Context, msg *QueuedMessage) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO queued_messages (id, conversation_id, content, payload, queued_at, attempts, last_error, status)
		VALUES ($1, $2, $3, $4, $5, 0, '', $6)
	`, msg.ID, msg.ConversationID, msg.Content, []byte(msg.Payload), msg.QueuedAt, string(msg.Status))
	return err
}

// Dequeue implements Store.
func (s *PostgresStore) Dequeue(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM queued_messages WHERE id = $1`, id)
	return err
}

// Pending implements Store.
func (s *PostgresStore) Pending(ctx context.Context) ([]QueuedMessage, error) {
	cutoff := time.Now().Add(-MaxAge)
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, content, payload, queued_at, attempts, last_error, status
		FROM queued_messages
		WHERE status = $1 AND queued_at > $2
		ORDER BY queued_at ASC, id ASC
	`, string(StatusQueued), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []QueuedMessage
	for rows.Next() {
		var m QueuedMessage
		var payload []byte
		var status string
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
func (s *PostgresStore) PendingCount(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-MaxAge)
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM queued_messages WHERE status = $1 AND queued_at > $2
	`, string(StatusQueued), cutoff).Scan(&count)
	return count, err
}

// RecordFailure implements Store.
func (s *PostgresStore) RecordFailure(ctx context.Context, id, errMsg string) (int, error) {
	var attempts int
	err := s.pool.QueryRow(ctx, `
		UPDATE queued_messages SET attempts = attempts + 1, last_error = $1
		WHERE id = $2
		RETURNING attempts
	`, errMsg, id).Scan(&attempts)
	if err != nil {
		return 0, ErrNotFound
	}
	return attempts, nil
}

// MarkFailed implements Store.
func (s *PostgresStore) MarkFailed(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE queued_messages SET status = $1 WHERE id = $2`, string(StatusFailed), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAll implements Store.
func (s *PostgresStore) ClearAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM queued_messages`)
	return err
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
