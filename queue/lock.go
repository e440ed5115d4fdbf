package queue

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayLock mutually excludes replay passes across processes that share a
// store. Two instances draining the same queue concurrently would duplicate
// sends; the lock narrows delivery from at-least-once back to at-most-once
// per pass. Within a single process the replay engine's own single-flight
// guard is enough and no lock is needed.
type ReplayLock interface {
	// TryLock attempts to take the lock without blocking.
	TryLock(ctx context.Context) (bool, error)

	// Unlock releases the lock. Safe to call when the lock was not held.
	Unlock(ctx context.Context) error
}

// RedisLock implements ReplayLock with SET NX and a TTL so a crashed
// holder cannot wedge replay forever.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLock creates a Redis-backed replay lock for a namespace.
func NewRedisLock(client *redis.Client, namespace string, ttl time.Duration) *RedisLock {
	if namespace == "" {
		namespace = "default"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLock{client: client, key: "boardroom:" + namespace + ":replay-lock", ttl: ttl}
}

// TryLock implements ReplayLock.
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, "1", l.ttl).Result()
}

// Unlock implements ReplayLock.
func (l *RedisLock) Unlock(ctx context.Context) error {
	return l.client.Del(ctx, l.key).Err()
}

// FileLock implements ReplayLock with an exclusively-created lock file,
// for file and sqlite drivers shared between a daemon and the CLI.
type FileLock struct {
	path string
	ttl  time.Duration
}

// NewFileLock creates a lock-file based replay lock.
func NewFileLock(path string, ttl time.Duration) *FileLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &FileLock{path: path, ttl: ttl}
}

// TryLock implements ReplayLock. A lock file older than the TTL is treated
// as abandoned by a crashed holder and reclaimed.
func (l *FileLock) TryLock(ctx context.Context) (bool, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err == nil {
		f.Close()
		return true, nil
	}
	if !os.IsExist(err) {
		return false, err
	}

	info, statErr := os.Stat(l.path)
	if statErr != nil || time.Since(info.ModTime()) < l.ttl {
		return false, nil
	}
	if err := os.Remove(l.path); err != nil {
		return false, nil
	}
	f, err = os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return false, nil
	}
	f.Close()
	return true, nil
}

// Unlock implements ReplayLock.
func (l *FileLock) Unlock(ctx context.Context) error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
