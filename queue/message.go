// Package queue provides durable local storage for outgoing boardroom
// messages awaiting send. Messages survive connectivity loss and are
// replayed by the replay package once the network returns.
package queue

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle state of a queued message.
type Status string

const (
	// StatusQueued marks a message still awaiting a successful send.
	// A message temporarily in flight is still queued; there is no
	// persisted in-flight state.
	StatusQueued Status = "queued"

	// StatusFailed is terminal: the message exhausted its send attempts
	// and is excluded from all future replay passes.
	StatusFailed Status = "failed"
)

const (
	// Capacity is the maximum number of messages a store holds. Enqueue
	// at capacity evicts the single oldest entry, never rejects.
	Capacity = 10

	// trimCapacity is what the queue is cut down to when the backing
	// write fails, before the write is retried once.
	trimCapacity = 5

	// MaxAge is how long an entry stays visible to read paths. Older
	// entries simply stop being pending; physical removal is lazy.
	MaxAge = time.Hour
)

// QueuedMessage is one not-yet-confirmed outgoing chat message.
type QueuedMessage struct {
	ID             string          `json:"id"` // ULID, time-ordered
	ConversationID string          `json:"conversation_id"`
	Content        string          `json:"content"`
	Payload        json.RawMessage `json:"payload"` // owned by the store after enqueue
	QueuedAt       time.Time       `json:"queued_at"`
	Attempts       int             `json:"attempts"`
	LastError      string          `json:"last_error,omitempty"`
	Status         Status          `json:"status"`
}

// Stale reports whether the message is older than MaxAge at the given time.
func (m *QueuedMessage) Stale(now time.Time) bool {
	return now.Sub(m.QueuedAt) > MaxAge
}
