package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLockExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.lock")
	ctx := context.Background()

	a := NewFileLock(path, time.Minute)
	b := NewFileLock(path, time.Minute)

	held, err := a.TryLock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Fatal("first TryLock should succeed")
	}

	held, err = b.TryLock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if held {
		t.Fatal("second TryLock should be refused while held")
	}

	if err := a.Unlock(ctx); err != nil {
		t.Fatal(err)
	}

	held, err = b.TryLock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Fatal("TryLock should succeed after release")
	}
}

func TestFileLockReclaimsStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.lock")
	ctx := context.Background()

	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-10 * time.Minute)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	l := NewFileLock(path, time.Minute)
	held, err := l.TryLock(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Fatal("stale lock from a crashed holder should be reclaimed")
	}
}

func TestFileLockUnlockIdempotent(t *testing.T) {
	l := NewFileLock(filepath.Join(t.TempDir(), "replay.lock"), time.Minute)
	if err := l.Unlock(context.Background()); err != nil {
		t.Fatalf("unlock without lock should be a no-op, got %v", err)
	}
}
