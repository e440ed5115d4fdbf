package queue

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by bookkeeping operations for an unknown message ID.
var ErrNotFound = errors.New("queue: message not found")

// Store defines durable storage for queued messages. All drivers preserve
// FIFO enqueue order and enforce the capacity and staleness invariants.
type Store interface {
	// Enqueue adds a message, evicting the oldest entry when at capacity.
	// It never reports failure to the caller: when the backing write
	// fails the store trims to the most recent entries and retries once,
	// and drops the write silently if that also fails. Durability is
	// best-effort, never a hard guarantee.
	Enqueue(ctx context.Context, conversationID, content string, payload json.RawMessage) *QueuedMessage

	// Dequeue removes a message by ID, typically after a confirmed send.
	Dequeue(ctx context.Context, id string) error

	// Pending returns messages still awaiting send in FIFO order,
	// excluding terminal failures and entries older than MaxAge.
	Pending(ctx context.Context) ([]QueuedMessage, error)

	// PendingCount reports how many messages Pending would return.
	PendingCount(ctx context.Context) (int, error)

	// RecordFailure increments the attempt counter and records the most
	// recent send error. It returns the new attempt count.
	RecordFailure(ctx context.Context, id, errMsg string) (int, error)

	// MarkFailed transitions a message to the terminal failed status.
	MarkFailed(ctx context.Context, id string) error

	// ClearAll removes every entry, pending or not.
	ClearAll(ctx context.Context) error

	// Close releases any resources held by the driver.
	Close() error
}
