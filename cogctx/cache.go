// Package cogctx caches previously fetched cognitive metadata (trust
// levels, recent topics) so enrichment does not refetch it per message.
// The cache has no TTL: it lives from an explicit Preload (conversation
// open) until an explicit Clear (conversation switch or sign-out).
package cogctx

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ParticipantTrust is a participant's trust score and its labeled tier.
// Consumed read-only here; the trust engine lives elsewhere.
type ParticipantTrust struct {
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// Context is a point-in-time snapshot of cognitive metadata.
type Context struct {
	Trust        map[string]ParticipantTrust `json:"trust"` // keyed by participant slug
	RecentTopics []string                    `json:"recent_topics,omitempty"`
	CapturedAt   time.Time                   `json:"captured_at"`
}

// FetchFunc retrieves cognitive metadata from the hosting application.
type FetchFunc func(ctx context.Context) (*Context, error)

// Cache holds the latest snapshot between explicit preloads and clears.
type Cache struct {
	fetch  FetchFunc
	logger zerolog.Logger

	mu       sync.RWMutex
	snapshot *Context
}

// NewCache creates a cache over the given fetcher. A nil fetcher is valid:
// Preload then always reports no context.
func NewCache(fetch FetchFunc, logger zerolog.Logger) *Cache {
	return &Cache{fetch: fetch, logger: logger}
}

// Preload fetches and caches a fresh snapshot. Fetch failures degrade to
// nil with a warning; they are never surfaced as errors.
func (c *Cache) Preload(ctx context.Context) *Context {
	if c.fetch == nil {
		return nil
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("cognitive context preload failed")
		return nil
	}
	if snap != nil && snap.CapturedAt.IsZero() {
		snap.CapturedAt = time.Now()
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
	return snap
}

// Cached returns the current snapshot, or nil when nothing is loaded.
func (c *Cache) Cached() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Clear drops the snapshot. Callers must clear on conversation switch so a
// new conversation never sees the previous one's trust data.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
