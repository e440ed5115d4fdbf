package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/metrics"
)

const defaultQueuePath = "./data/boardroom-queue.json"

// FileStore persists the queue as a single JSON array in one namespaced
// file, read and rewritten wholesale on every mutation. It is the default
// driver and assumes a single writer per path.
type FileStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed store.
// If path is empty, defaults to "./data/boardroom-queue.json".
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	if path == "" {
		path = defaultQueuePath
	}
	return &FileStore{path: path, logger: logger}
}

// load reads the whole queue. A missing file is an empty queue; a corrupt
// file is discarded rather than surfaced, per the recovery contract.
func (s *FileStore) load() []QueuedMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("queue file unreadable, treating as empty")
		}
		return nil
	}

	var msgs []QueuedMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("queue file corrupt, discarding")
		return nil
	}
	return msgs
}

// save rewrites the whole queue.
func (s *FileStore) save(msgs []QueuedMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Enqueue implements Store. It never reports failure: a failed write is
// retried once after trimming to the most recent entries, then dropped.
func (s *FileStore) Enqueue(ctx context.Context, conversationID, content string, payload json.RawMessage) *QueuedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := newMessage(conversationID, content, payload)

	msgs := s.load()
	if len(msgs) >= Capacity {
		evicted := len(msgs) - Capacity + 1
		msgs = msgs[evicted:]
		metrics.QueueEvictions.Add(float64(evicted))
	}
	msgs = append(msgs, *msg)

	if err := s.save(msgs); err != nil {
		if len(msgs) > trimCapacity {
			msgs = msgs[len(msgs)-trimCapacity:]
		}
		if err := s.save(msgs); err != nil {
			metrics.QueueDrops.Inc()
			s.logger.Warn().Err(err).Str("id", msg.ID).Msg("queued message dropped, storage unavailable")
			return msg
		}
	}

	metrics.MessagesQueued.Inc()
	return msg
}

// Dequeue implements Store.
func (s *FileStore) Dequeue(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load()
	kept := msgs[:0]
	for _, m := range msgs {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return s.save(kept)
}

// Pending implements Store.
func (s *FileStore) Pending(ctx context.Context) ([]QueuedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterPending(s.load(), time.Now()), nil
}

// PendingCount implements Store.
func (s *FileStore) PendingCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(filterPending(s.load(), time.Now())), nil
}

// RecordFailure implements Store.
func (s *FileStore) RecordFailure(ctx context.Context, id, errMsg string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load()
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Attempts++
			msgs[i].LastError = errMsg
			return msgs[i].Attempts, s.save(msgs)
		}
	}
	return 0, ErrNotFound
}

// MarkFailed implements Store.
func (s *FileStore) MarkFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load()
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Status = StatusFailed
			return s.save(msgs)
		}
	}
	return ErrNotFound
}

// ClearAll implements Store.
func (s *FileStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(nil)
}

// Close implements Store.
func (s *FileStore) Close() error {
	return nil
}

// newMessage builds a fresh queued message. ULIDs are time-ordered with a
// random suffix, so IDs never collide within the same millisecond.
func newMessage(conversationID, content string, payload json.RawMessage) *QueuedMessage {
	return &QueuedMessage{
		ID:             ulid.Make().String(),
		ConversationID: conversationID,
		Content:        content,
		Payload:        payload,
		QueuedAt:       time.Now(),
		Status:         StatusQueued,
	}
}

// filterPending applies the shared read-path contract: FIFO order, no
// terminal failures, no entries older than MaxAge.
func filterPending(msgs []QueuedMessage, now time.Time) []QueuedMessage {
	pending := make([]QueuedMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Status != StatusQueued || m.Stale(now) {
			continue
		}
		pending = append(pending, m)
	}
	return pending
}
