package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/metrics"
)

// RedisStore keeps the whole queue as a JSON array under one namespaced
// key, mirroring the file driver's wholesale read/rewrite model. Useful
// when several sidecar instances share one queue and need the companion
// RedisLock for replay exclusion.
type RedisStore struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
	mu     sync.Mutex
}

// queueKey returns the key for a namespace's message queue.
func queueKey(namespace string) string {
	if namespace == "" {
		namespace = "default"
	}
	return fmt.Sprintf("boardroom:%s:queue", namespace)
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(ctx context.Context, redisURL, namespace string, logger zerolog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client, key: queueKey(namespace), logger: logger}, nil
}

// Client exposes the underlying connection so callers can share it with a
// RedisLock.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) load(ctx context.Context) []QueuedMessage {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("queue key unreadable, treating as empty")
		return nil
	}

	var msgs []QueuedMessage
	if err := json.Unmarshal([]byte(val), &msgs); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("queue key corrupt, discarding")
		return nil
	}
	return msgs
}

func (s *RedisStore) save(ctx context.Context, msgs []QueuedMessage) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, string(data), 0).Err()
}

// Enqueue implements Store.
func (s *RedisStore) Enqueue(ctx context.Context, conversationID, content string, payload json.RawMessage) *QueuedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := newMessage(conversationID, content, payload)

	msgs := s.load(ctx)
	if len(msgs) >= Capacity {
		evicted := len(msgs) - Capacity + 1
		msgs = msgs[evicted:]
		metrics.QueueEvictions.Add(float64(evicted))
	}
	msgs = append(msgs, *msg)

	if err := s.save(ctx, msgs); err != nil {
		if len(msgs) > trimCapacity {
			msgs = msgs[len(msgs)-trimCapacity:]
		}
		if err := s.save(ctx, msgs); err != nil {
			metrics.QueueDrops.Inc()
			s.logger.Warn().Err(err).Str("id", msg.ID).Msg("queued message dropped, storage unavailable")
			return msg
		}
	}

	metrics.MessagesQueued.Inc()
	return msg
}

// Dequeue implements Store.
func (s *RedisStore) Dequeue(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load(ctx)
	kept := msgs[:0]
	for _, m := range msgs {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return s.save(ctx, kept)
}

// Pending implements Store.
func (s *RedisStore) Pending(ctx context.Context) ([]QueuedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterPending(s.load(ctx), time.Now()), nil
}

// PendingCount implements Store.
func (s *RedisStore) PendingCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(filterPending(s.load(ctx), time.Now())), nil
}

// RecordFailure implements Store.
func (s *RedisStore) RecordFailure(ctx context.Context, id, errMsg string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load(ctx)
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Attempts++
			msgs[i].LastError = errMsg
			return msgs[i].Attempts, s.save(ctx, msgs)
		}
	}
	return 0, ErrNotFound
}

// MarkFailed implements Store.
func (s *RedisStore) MarkFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.load(ctx)
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].Status = StatusFailed
			return s.save(ctx, msgs)
		}
	}
	return ErrNotFound
}

// ClearAll implements Store.
func (s *RedisStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Del(ctx, s.key).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
