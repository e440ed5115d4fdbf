// Package enrich composes the per-message client context bundle: energy,
// topic and routing prediction, room engagement hints, cached cognitive
// context, and device metadata. The bundle is attached to every outgoing
// message so the interface can show immediate feedback while the
// authoritative server-side router re-validates the same decision.
package enrich

import (
	"sync"
	"time"

	"github.com/meridian-market/boardroom/cogctx"
	"github.com/meridian-market/boardroom/netwatch"
	"github.com/meridian-market/boardroom/route"
)

// windowSize bounds the rolling record of enrichment timestamps.
const windowSize = 20

// DeviceInfo is device and connectivity metadata captured per bundle.
type DeviceInfo struct {
	Class     string    `json:"class"` // "desktop", "tablet", "mobile"
	Online    bool      `json:"online"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomHints describes recent room momentum. Purely descriptive; nothing
// routes on it.
type RoomHints struct {
	MessagesPerMinute float64 `json:"messages_per_minute"`
	SecondsSinceLast  float64 `json:"seconds_since_last"`
	Sampled           int     `json:"sampled"`
}

// Bundle is the enrichment attached to one outgoing message. Produced
// fresh per message, never stored.
type Bundle struct {
	Energy    Energy          `json:"energy"`
	Routing   route.Preview   `json:"routing"`
	Room      RoomHints       `json:"room"`
	Cognitive *cogctx.Context `json:"cognitive,omitempty"`
	Device    DeviceInfo      `json:"device"`
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEnergyClassifier substitutes the hosting application's real energy
// classifier for the built-in heuristic.
func WithEnergyClassifier(c EnergyClassifier) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.energy = c
		}
	}
}

// WithDeviceClass sets the device class reported in bundles.
func WithDeviceClass(class string) Option {
	return func(o *Orchestrator) {
		if class != "" {
			o.deviceClass = class
		}
	}
}

// Orchestrator is the single entry point a caller uses before sending a
// message. Enrich is synchronous and performs no I/O; its only side effect
// is the orchestrator's own rolling timestamp window.
type Orchestrator struct {
	energy      EnergyClassifier
	cache       *cogctx.Cache
	monitor     *netwatch.Monitor
	deviceClass string

	mu     sync.Mutex
	window []time.Time

	now func() time.Time
}

// NewOrchestrator creates an orchestrator. cache and monitor may be nil:
// bundles then carry no cognitive context and assume connectivity.
func NewOrchestrator(cache *cogctx.Cache, monitor *netwatch.Monitor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		energy:      heuristicEnergy{},
		cache:       cache,
		monitor:     monitor,
		deviceClass: "desktop",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich builds the context bundle for one outgoing message.
func (o *Orchestrator) Enrich(message string, participants []route.Participant, convType route.ConversationType, restricted []string) *Bundle {
	now := o.now()
	hints := o.observe(now)

	var cog *cogctx.Context
	if o.cache != nil {
		cog = o.cache.Cached()
	}

	online := true
	if o.monitor != nil {
		online = o.monitor.Online()
	}

	return &Bundle{
		Energy:    o.energy.Classify(message),
		Routing:   route.PreviewRouting(message, participants, convType, restricted),
		Room:      hints,
		Cognitive: cog,
		Device: DeviceInfo{
			Class:     o.deviceClass,
			Online:    online,
			Timestamp: now,
		},
	}
}

// observe records an enrichment timestamp and derives the room hints from
// the bounded window.
func (o *Orchestrator) observe(now time.Time) RoomHints {
	o.mu.Lock()
	defer o.mu.Unlock()

	var sinceLast float64
	if n := len(o.window); n > 0 {
		sinceLast = now.Sub(o.window[n-1]).Seconds()
	}

	o.window = append(o.window, now)
	if len(o.window) > windowSize {
		o.window = o.window[len(o.window)-windowSize:]
	}

	var perMinute float64
	if len(o.window) >= 2 {
		span := o.window[len(o.window)-1].Sub(o.window[0]).Minutes()
		if span > 0 {
			perMinute = float64(len(o.window)-1) / span
		}
	}

	return RoomHints{
		MessagesPerMinute: perMinute,
		SecondsSinceLast:  sinceLast,
		Sampled:           len(o.window),
	}
}
