package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardroom_http_requests_total",
			Help: "Total HTTP requests to the sidecar",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boardroom_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Queue metrics
	MessagesQueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_messages_queued_total",
			Help: "Total messages enqueued for offline delivery",
		},
	)

	QueueEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_queue_evictions_total",
			Help: "Total oldest-entry evictions due to the capacity cap",
		},
	)

	QueueDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_queue_drops_total",
			Help: "Total enqueues dropped after a failed write and retry",
		},
	)

	// Replay metrics
	ReplayPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_replay_passes_total",
			Help: "Total replay passes started",
		},
	)

	MessagesReplayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_messages_replayed_total",
			Help: "Total queued messages successfully resent",
		},
	)

	ReplayFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardroom_replay_failures_total",
			Help: "Total failed send attempts during replay",
		},
		[]string{"terminal"}, // "true" once a message hits the attempt cap
	)

	// Classification metrics
	TopicDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardroom_topic_detections_total",
			Help: "Total topic detections served via the preview endpoint",
		},
		[]string{"topic"},
	)
)
