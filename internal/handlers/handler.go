package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/cogctx"
	"github.com/meridian-market/boardroom/enrich"
	"github.com/meridian-market/boardroom/netwatch"
	"github.com/meridian-market/boardroom/queue"
	"github.com/meridian-market/boardroom/replay"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	store   queue.Store
	engine  *replay.Engine
	orch    *enrich.Orchestrator
	cache   *cogctx.Cache
	monitor *netwatch.Monitor
	send    replay.SendFunc
	logger  zerolog.Logger
}

// NewHandler creates a new Handler with the given collaborators.
func NewHandler(store queue.Store, engine *replay.Engine, orch *enrich.Orchestrator, cache *cogctx.Cache, monitor *netwatch.Monitor, send replay.SendFunc, logger zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		engine:  engine,
		orch:    orch,
		cache:   cache,
		monitor: monitor,
		send:    send,
		logger:  logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
