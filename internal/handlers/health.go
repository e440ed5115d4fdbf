package handlers

import (
	"net/http"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Online    bool             `json:"online"`
	Replaying bool             `json:"replaying"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check)
	allHealthy := true

	// The queue is the only stateful dependency; a readable count means
	// the backing store is reachable.
	storeStart := time.Now()
	if _, err := h.store.PendingCount(r.Context()); err != nil {
		checks["queue"] = Check{Status: "fail", Message: "store unreachable"}
		allHealthy = false
	} else {
		checks["queue"] = Check{Status: "pass", Latency: time.Since(storeStart).String()}
	}

	online := true
	if h.monitor != nil {
		online = h.monitor.Online()
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	h.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Version:   version,
		Online:    online,
		Replaying: h.engine.Running(),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{Name: "boardroom", Version: version})
}
