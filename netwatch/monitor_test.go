package netwatch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// flipProbe reports whatever its flag currently holds.
type flipProbe struct {
	online atomic.Bool
}

func (p *flipProbe) probe(ctx context.Context) bool {
	return p.online.Load()
}

func TestDefaultOnline(t *testing.T) {
	m := NewMonitor(nil, time.Second, zerolog.Nop())
	if !m.Online() {
		t.Fatal("monitor should assume online before any probe")
	}
	if !m.Check(context.Background()) {
		t.Fatal("check without a probe should report online")
	}
}

func TestCheckUpdatesState(t *testing.T) {
	p := &flipProbe{}
	m := NewMonitor(p.probe, time.Second, zerolog.Nop())

	if m.Check(context.Background()) {
		t.Fatal("probe reports offline")
	}
	if m.Online() {
		t.Fatal("cached state should reflect the last check")
	}

	p.online.Store(true)
	if !m.Check(context.Background()) {
		t.Fatal("probe reports online")
	}
	if !m.Online() {
		t.Fatal("cached state should flip back online")
	}
}

func TestWatchFiresOnTransitions(t *testing.T) {
	p := &flipProbe{}
	p.online.Store(true)
	m := NewMonitor(p.probe, time.Second, zerolog.Nop())

	var onlines, offlines int
	cancel := m.Watch(func() { onlines++ }, func() { offlines++ })
	defer cancel()

	ctx := context.Background()

	// Still online: no transition, no callback.
	m.Check(ctx)
	if onlines != 0 || offlines != 0 {
		t.Fatalf("no transition expected, got %d/%d", onlines, offlines)
	}

	p.online.Store(false)
	m.Check(ctx)
	m.Check(ctx) // repeated offline is not a transition
	if offlines != 1 {
		t.Fatalf("expected 1 offline callback, got %d", offlines)
	}

	p.online.Store(true)
	m.Check(ctx)
	if onlines != 1 {
		t.Fatalf("expected 1 online callback, got %d", onlines)
	}
}

func TestWatchCancelRemovesPair(t *testing.T) {
	p := &flipProbe{}
	p.online.Store(true)
	m := NewMonitor(p.probe, time.Second, zerolog.Nop())

	var kept, cancelled int
	cancelKept := m.Watch(nil, func() { kept++ })
	defer cancelKept()
	cancelOther := m.Watch(nil, func() { cancelled++ })
	cancelOther()

	p.online.Store(false)
	m.Check(context.Background())

	if kept != 1 {
		t.Fatalf("remaining watcher should fire, got %d", kept)
	}
	if cancelled != 0 {
		t.Fatalf("cancelled watcher should not fire, got %d", cancelled)
	}
}

func TestDialProbeUnreachable(t *testing.T) {
	probe := DialProbe("127.0.0.1:1", 100*time.Millisecond)
	if probe(context.Background()) {
		t.Fatal("expected unreachable address to probe false")
	}
}
