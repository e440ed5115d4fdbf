// Package replay drains the message queue against connectivity state with
// exponential backoff, at-most-one-in-flight semantics, and per-message
// failure bookkeeping.
package replay

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/internal/metrics"
	"github.com/meridian-market/boardroom/netwatch"
	"github.com/meridian-market/boardroom/queue"
)

// SendFunc performs the actual network send for one message. The hosting
// application supplies it; a false return or an error both count as a
// failed attempt.
type SendFunc func(ctx context.Context, conversationID string, payload json.RawMessage) (bool, error)

const (
	// DefaultBaseDelay seeds the exponential backoff: a message with n
	// prior failures waits base × 2^(n-1) before its next attempt.
	DefaultBaseDelay = 2 * time.Second

	// MaxAttempts is the failed-send cap after which a message is marked
	// failed and excluded from all future passes.
	MaxAttempts = 3
)

// Result aggregates the outcome of one replay pass.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithBaseDelay overrides the backoff base delay.
func WithBaseDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.baseDelay = d
		}
	}
}

// WithLock adds cross-process replay exclusion for stores shared between
// instances. Without it, two processes draining the same store may deliver
// a message twice.
func WithLock(lock queue.ReplayLock) Option {
	return func(e *Engine) {
		e.lock = lock
	}
}

// Engine replays pending messages from one store. The single-flight guard
// is a field, not package state, so independent queues (per account, or
// parallel tests) never share it.
type Engine struct {
	store     queue.Store
	monitor   *netwatch.Monitor
	lock      queue.ReplayLock
	baseDelay time.Duration
	logger    zerolog.Logger
	running   atomic.Bool
}

// NewEngine creates a replay engine. monitor may be nil, in which case the
// engine assumes connectivity.
func NewEngine(store queue.Store, monitor *netwatch.Monitor, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		monitor:   monitor,
		baseDelay: DefaultBaseDelay,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Running reports whether a pass is currently in flight.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Replay runs one pass over pending messages in FIFO order and reports
// whether the pass ran. At most one pass is in flight at a time; a call
// that overlaps a running pass is a silent no-op returning false. Both
// callbacks are optional.
//
// Going offline mid-pass abandons the remainder of the pass: unattempted
// messages stay queued for the next trigger. An already-dispatched send is
// never forcibly cancelled.
func (e *Engine) Replay(ctx context.Context, send SendFunc, onSent func(queue.QueuedMessage), onComplete func(Result)) bool {
	if send == nil {
		return false
	}
	if !e.running.CompareAndSwap(false, true) {
		return false
	}
	defer e.running.Store(false)

	if e.lock != nil {
		held, err := e.lock.TryLock(ctx)
		if err != nil {
			e.logger.Warn().Err(err).Msg("replay lock unavailable")
			return false
		}
		if !held {
			return false
		}
		defer func() {
			if err := e.lock.Unlock(ctx); err != nil {
				e.logger.Warn().Err(err).Msg("replay lock release failed")
			}
		}()
	}

	metrics.ReplayPasses.Inc()

	var res Result
	defer func() {
		if onComplete != nil {
			onComplete(res)
		}
	}()

	pending, err := e.store.Pending(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("replay pass aborted, queue unreadable")
		return true
	}

	for i := range pending {
		msg := pending[i]

		// First-ever attempts go out immediately; retries back off.
		if msg.Attempts > 0 {
			if !e.wait(ctx, e.baseDelay<<(msg.Attempts-1)) {
				e.logger.Debug().Msg("replay pass cancelled")
				return true
			}
		}

		if !e.online(ctx) {
			e.logger.Info().Int("remaining", len(pending)-i).Msg("offline, abandoning replay pass")
			return true
		}

		ok, sendErr := send(ctx, msg.ConversationID, msg.Payload)
		if ok && sendErr == nil {
			if err := e.store.Dequeue(ctx, msg.ID); err != nil {
				e.logger.Warn().Err(err).Str("id", msg.ID).Msg("sent message not removed from queue")
			}
			res.Sent++
			metrics.MessagesReplayed.Inc()
			if onSent != nil {
				onSent(msg)
			}
			continue
		}

		errMsg := "send rejected"
		if sendErr != nil {
			errMsg = sendErr.Error()
		}

		attempts, err := e.store.RecordFailure(ctx, msg.ID, errMsg)
		if err != nil {
			e.logger.Warn().Err(err).Str("id", msg.ID).Msg("failure bookkeeping lost")
			attempts = msg.Attempts + 1
		}
		res.Failed++

		if attempts >= MaxAttempts {
			if err := e.store.MarkFailed(ctx, msg.ID); err != nil {
				e.logger.Warn().Err(err).Str("id", msg.ID).Msg("terminal failure not recorded")
			}
			metrics.ReplayFailures.WithLabelValues("true").Inc()
			e.logger.Warn().
				Str("id", msg.ID).
				Str("conversation_id", msg.ConversationID).
				Str("error", errMsg).
				Msg("message failed permanently after repeated attempts")
		} else {
			metrics.ReplayFailures.WithLabelValues("false").Inc()
			e.logger.Debug().
				Str("id", msg.ID).
				Int("attempts", attempts).
				Str("error", errMsg).
				Msg("send attempt failed, message stays queued")
		}
	}

	return true
}

// wait blocks for the backoff delay. It returns false when ctx ended first.
func (e *Engine) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// online re-checks connectivity via the monitor's probe. Engines without a
// monitor assume the network is reachable.
func (e *Engine) online(ctx context.Context) bool {
	if e.monitor == nil {
		return true
	}
	return e.monitor.Check(ctx)
}
